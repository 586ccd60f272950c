package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a snowflake id. It is written as a JSON string and read from either a
// string or a number, since browsers lose precision above 2^53.
type ID int64

func (i ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(i), 10))
}

func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid id %q", data)
	}
	*i = ID(v)
	return nil
}

func (i *ID) Int64() *int64 {
	if i == nil {
		return nil
	}
	v := int64(*i)
	return &v
}
