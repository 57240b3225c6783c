package util

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// ExtractJSONArray 从模型返回的原始文本中提取 JSON 数组子串。
// 先去掉 Markdown 代码围栏，再截取首个 '[' 到最后一个 ']' 之间的内容，
// 以容忍模型在合法 JSON 前后包裹说明文字。
func ExtractJSONArray(raw string) string {
	return extractDelimited(raw, '[', ']')
}

// ExtractJSONObject 同 ExtractJSONArray，但针对 JSON 对象（'{' 与 '}'）。
func ExtractJSONObject(raw string) string {
	return extractDelimited(raw, '{', '}')
}

func extractDelimited(raw string, open, closing byte) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	first := strings.IndexByte(s, open)
	last := strings.LastIndexByte(s, closing)
	if first != -1 && last != -1 && last > first {
		s = s[first : last+1]
	}
	return s
}

// MustJSON 将值序列化为 JSON 列值，序列化失败时落为 null
func MustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}
