package model

import (
	"encoding/json"
	"time"
)

// Exchange is one recorded question/response pair with the assistant.
type Exchange struct {
	Question  string    `json:"question" yaml:"question"`
	Response  string    `json:"response" yaml:"response"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

func (e *Exchange) UnmarshalJSON(b []byte) error {
	var raw struct {
		Question  string `json:"question"`
		Response  string `json:"response"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	ts, err := ParseTimestamp(raw.Timestamp)
	if err != nil {
		return err
	}
	*e = Exchange{Question: raw.Question, Response: raw.Response, Timestamp: ts}
	return nil
}
