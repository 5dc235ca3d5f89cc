package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID 后端标识符，兼容数字与字符串两种 JSON 表示
type ID string

// String 返回字符串形式
func (id ID) String() string {
	return string(id)
}

// IsZero 是否为空
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// UnmarshalJSON 解析数字或字符串
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}
