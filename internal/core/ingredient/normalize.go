package ingredient

import "strings"

// pluralExceptions 以 s 結尾但不是複數的詞，維持原樣
var pluralExceptions = map[string]bool{
	"molasses": true,
	"couscous": true,
	"hummus":   true,
}

// Normalize 將食材字串正規化為穩定的查詢鍵：
// 轉小寫、去除前後空白、內部空白折疊為單一空格、末尾單詞做簡單的複數還原。
// 純函數且冪等：Normalize(Normalize(x)) == Normalize(x)
func Normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return ""
	}

	// 只還原最後一個單詞（中心名詞）
	fields[len(fields)-1] = singularize(fields[len(fields)-1])
	return strings.Join(fields, " ")
}

// singularize 簡單的複數還原啟發式
// 不是完整的語言規則，僅涵蓋常見的規則複數；不規則複數（如 leaves）不處理
func singularize(word string) string {
	if len(word) <= 3 || pluralExceptions[word] {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		// berries -> berry
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "oes"),
		strings.HasSuffix(word, "ches"),
		strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "sses"),
		strings.HasSuffix(word, "xes"),
		strings.HasSuffix(word, "zes"):
		// tomatoes -> tomato, peaches -> peach
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ss"),
		strings.HasSuffix(word, "us"),
		strings.HasSuffix(word, "is"):
		// asparagus, hummus 之類不是複數
		return word
	case strings.HasSuffix(word, "s"):
		// onions -> onion
		return word[:len(word)-1]
	}
	return word
}
