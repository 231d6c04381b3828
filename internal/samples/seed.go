package samples

// Seed returns the built-in bootstrap corpus: a few labeled requests per
// intent, bilingual like the production traffic. Weights are uniform; the
// learner re-weights by reward once live outcomes arrive.
func Seed() []*TrainingSample {
	seed := []struct {
		text   string
		intent string
		tools  []string
	}{
		{"請幫我讀取 main.py 文件並找出所有的函數定義", "read_code", []string{"Read", "Grep"}},
		{"read the config file and show me its contents", "read_code", []string{"Read"}},
		{"show me what's in src/server.go", "read_code", []string{"Read"}},
		{"打開 utils.js 看看裡面有什麼", "read_code", []string{"Read"}},

		{"創建一個完整的用戶認證系統，包括登錄、註冊和密碼重置", "write_code", []string{"Write", "MultiEdit"}},
		{"write a new parser module for the CSV importer", "write_code", []string{"Write"}},
		{"create a REST handler for the orders endpoint", "write_code", []string{"Write"}},
		{"幫我寫一個排序函數", "write_code", []string{"Write"}},

		{"重構這個函數，讓它支持異步操作並保持向後兼容", "edit_code", []string{"Edit", "MultiEdit"}},
		{"rename the variable `cfg` to `config` across this file", "edit_code", []string{"Edit"}},
		{"update the timeout constant to 30 seconds", "edit_code", []string{"Edit"}},
		{"把這個類改成接口", "edit_code", []string{"Edit"}},

		{"分析一下為什麼單元測試在CI環境會失敗但本地能通過", "debug_error", []string{"Read", "Grep", "Bash"}},
		{"why does this crash with a nil pointer dereference?", "debug_error", []string{"Read", "Grep"}},
		{"the server returns 500 on every request, figure out why", "debug_error", []string{"Read", "Grep", "Bash"}},
		{"調試一下這個內存洩漏", "debug_error", []string{"Read", "Grep", "Bash"}},

		{"run the unit tests and tell me which ones fail", "run_test", []string{"Bash", "Read"}},
		{"執行所有測試", "run_test", []string{"Bash"}},
		{"run the integration suite for the storage package", "run_test", []string{"Bash"}},

		{"run make build and show the output", "run_command", []string{"Bash"}},
		{"執行 npm install", "run_command", []string{"Bash"}},
		{"start the dev server", "run_command", []string{"Bash"}},

		{"幫我找出所有使用了deprecated API的地方並提供修復建議", "search_code", []string{"Grep", "Glob"}},
		{"find every caller of ParseConfig", "search_code", []string{"Grep"}},
		{"search for TODO comments in the codebase", "search_code", []string{"Grep"}},
		{"哪些文件引用了這個模塊？", "search_code", []string{"Grep", "Glob"}},

		{"fix the off-by-one error in the pagination logic", "fix_bug", []string{"Edit"}},
		{"修復這個登錄頁面的bug", "fix_bug", []string{"Edit", "MultiEdit"}},
		{"the date formatter drops the timezone, fix it", "fix_bug", []string{"Edit"}},
	}

	out := make([]*TrainingSample, len(seed))
	for i, s := range seed {
		out[i] = &TrainingSample{
			Text:   s.text,
			Intent: s.intent,
			Tools:  s.tools,
			Weight: 1.0,
			Source: SourceSeed,
		}
	}
	return out
}
