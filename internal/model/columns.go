package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OptionList stores a question's display options as a JSON column.
// Index order is semantic: the correct-answer index points into this slice.
type OptionList []string

func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		o = OptionList{}
	}
	return json.Marshal(o)
}

func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = OptionList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported OptionList column type %T", value)
		}
		b = []byte(s)
	}
	if len(b) == 0 {
		*o = OptionList{}
		return nil
	}
	return json.Unmarshal(b, o)
}

// AnswerList stores a submission's selected option indices as a JSON column.
// A nil entry means the question at that position was skipped.
type AnswerList []*int

func (a AnswerList) Value() (driver.Value, error) {
	if a == nil {
		a = AnswerList{}
	}
	return json.Marshal(a)
}

func (a *AnswerList) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported AnswerList column type %T", value)
		}
		b = []byte(s)
	}
	if len(b) == 0 {
		*a = AnswerList{}
		return nil
	}
	return json.Unmarshal(b, a)
}
