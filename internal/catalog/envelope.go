package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeEnvelope validates a response body and extracts its phone records.
// It is the single place where raw payload shape is inspected.
// Failures are *Error values carrying only Kind, Message and Err; the caller
// fills in request details.
func decodeEnvelope(q Query, body []byte) ([]Phone, *PageInfo, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil, protocolError("decode envelope: %w", err)
	}
	if env.Success == nil {
		return nil, nil, protocolError("envelope missing success flag")
	}
	if !*env.Success {
		return nil, nil, &Error{Kind: ErrApplication, Message: env.Message}
	}

	phones, page, err := decodeData(q, env.Data)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePhones(phones); err != nil {
		return nil, nil, err
	}
	return phones, page, nil
}

func protocolError(format string, args ...any) *Error {
	return &Error{Kind: ErrProtocol, Err: fmt.Errorf(format, args...)}
}

func decodeData(q Query, raw json.RawMessage) ([]Phone, *PageInfo, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil, protocolError("envelope missing data")
	}

	switch trimmed[0] {
	case '[':
		var phones []Phone
		if err := json.Unmarshal(trimmed, &phones); err != nil {
			return nil, nil, protocolError("decode phones: %w", err)
		}
		return phones, nil, nil
	case '{':
		if !q.AcceptsPaginated() {
			return nil, nil, protocolError("%s endpoint returned an object, want a list", q.Mode)
		}
		var page pageData
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, nil, protocolError("decode page: %w", err)
		}
		if page.Content == nil {
			return nil, nil, protocolError("paginated data missing content")
		}
		info := page.PageInfo
		return *page.Content, &info, nil
	default:
		return nil, nil, protocolError("unexpected data type")
	}
}

// validatePhones enforces record invariants and normalizes nil usage types.
func validatePhones(phones []Phone) error {
	seen := make(map[string]struct{}, len(phones))
	for i := range phones {
		p := &phones[i]
		if p.ID == "" {
			return protocolError("record %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return protocolError("duplicate record id %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Price < 0 || p.Rating < 0 || p.StorageGB < 0 || p.RAMGB < 0 ||
			p.BatteryCapacity < 0 || p.ScreenSize < 0 || p.CameraCount < 0 || p.ReviewCount < 0 {
			return protocolError("record %q has a negative numeric field", p.ID)
		}
		if p.UsageTypes == nil {
			p.UsageTypes = []string{}
		}
	}
	return nil
}
