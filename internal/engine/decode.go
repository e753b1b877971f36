package engine

import (
	"time"

	"github.com/tidwall/gjson"
)

// DecodeEnvelope parses one raw envelope into a typed Event. It returns
// false for anything malformed or unrecognized; per the error policy such
// envelopes are dropped silently. Envelopes wrapped in {directory, payload}
// are unwrapped first and dropped when the directory tag does not match.
//
// Pure function: no state, no side effects.
func DecodeEnvelope(raw []byte, directory string) (*Event, bool) {
	if !gjson.ValidBytes(raw) {
		return nil, false
	}

	body := gjson.ParseBytes(raw)
	if dir := body.Get("directory"); dir.Exists() {
		if directory != "" && dir.String() != directory {
			return nil, false
		}
		body = body.Get("payload")
		if !body.Exists() {
			return nil, false
		}
	}

	props := body.Get("properties")

	switch body.Get("type").String() {
	case "server.connected":
		return &Event{Kind: EventConnected}, true

	case "session.status":
		status := decodeStatus(props.Get("status"))
		if status == nil {
			return nil, false
		}
		return &Event{
			Kind:      EventSessionStatus,
			SessionID: props.Get("sessionID").String(),
			Status:    status,
		}, true

	case "session.idle":
		return &Event{
			Kind:      EventSessionIdle,
			SessionID: props.Get("sessionID").String(),
		}, true

	case "session.error":
		return &Event{
			Kind:      EventSessionError,
			SessionID: props.Get("sessionID").String(),
			ErrorText: firstString(props, "error.message", "error", "message"),
		}, true

	case "message.part.updated":
		part := decodePart(props)
		if part == nil {
			return nil, false
		}
		return &Event{
			Kind:      EventPartUpdated,
			SessionID: part.SessionID,
			Part:      part,
		}, true

	case "message.updated":
		info := props.Get("info")
		id := info.Get("id").String()
		if id == "" {
			return nil, false
		}
		upd := &MessageUpdate{
			SessionID: info.Get("sessionID").String(),
			MessageID: id,
			Role:      info.Get("role").String(),
		}
		if v := info.Get("time.created"); v.Exists() {
			f := v.Float()
			upd.CreatedAt = &f
		}
		if v := info.Get("time.completed"); v.Exists() {
			f := v.Float()
			upd.CompletedAt = &f
		}
		return &Event{
			Kind:      EventMessageUpdated,
			SessionID: upd.SessionID,
			Message:   upd,
		}, true

	case "message.removed":
		id := props.Get("messageID").String()
		if id == "" {
			return nil, false
		}
		return &Event{
			Kind:      EventMessageRemoved,
			SessionID: props.Get("sessionID").String(),
			MessageID: id,
		}, true

	case "message.part.removed":
		msgID := props.Get("messageID").String()
		partID := props.Get("partID").String()
		if msgID == "" || partID == "" {
			return nil, false
		}
		return &Event{
			Kind:      EventPartRemoved,
			SessionID: props.Get("sessionID").String(),
			MessageID: msgID,
			PartID:    partID,
		}, true
	}

	return nil, false
}

func decodeStatus(v gjson.Result) *SessionStatus {
	if !v.Exists() {
		return nil
	}
	// A bare string is accepted as a shorthand for {type: ...}.
	kind := v.Get("type").String()
	if kind == "" && v.Type == gjson.String {
		kind = v.String()
	}

	status := &SessionStatus{Attempt: int(v.Get("attempt").Int()), Message: v.Get("message").String()}
	switch kind {
	case "busy":
		status.Kind = StatusBusy
	case "retry":
		status.Kind = StatusRetry
	case "idle":
		status.Kind = StatusIdle
	default:
		return nil
	}
	if next := v.Get("next"); next.Exists() {
		status.NextAttemptAt = time.UnixMilli(int64(next.Float()))
	}
	return status
}

func decodePart(props gjson.Result) *PartUpdate {
	part := props.Get("part")
	id := part.Get("id").String()
	msgID := part.Get("messageID").String()
	if id == "" || msgID == "" {
		return nil
	}

	upd := &PartUpdate{
		SessionID: part.Get("sessionID").String(),
		MessageID: msgID,
		PartID:    id,
		Delta:     props.Get("delta").String(),
		Tool:      part.Get("tool").String(),
		RoleHint:  part.Get("role").String(),
	}

	switch part.Get("type").String() {
	case "text":
		upd.Kind = PartText
	case "reasoning":
		upd.Kind = PartReasoning
	case "tool":
		upd.Kind = PartTool
	case "subtask", "task":
		upd.Kind = PartSubtask
	}

	if v := part.Get("text"); v.Exists() {
		s := v.String()
		upd.Text = &s
	}
	if v := part.Get("title"); v.Exists() {
		s := v.String()
		upd.Title = &s
	}
	if v := part.Get("time.start"); v.Exists() {
		f := v.Float()
		upd.TimeStart = &f
	}
	if v := part.Get("time.end"); v.Exists() {
		f := v.Float()
		upd.TimeEnd = &f
	}
	if v := part.Get("synthetic"); v.Exists() {
		b := v.Bool()
		upd.Synthetic = &b
	}
	if v := part.Get("ignored"); v.Exists() {
		b := v.Bool()
		upd.Ignored = &b
	}

	// The tool status may be a nested object; project it down to its status
	// string, and pull output/error/input out of it when they are not given
	// at the top level.
	state := part.Get("state")
	switch {
	case state.IsObject():
		upd.ToolStatus = state.Get("status").String()
	case state.Type == gjson.String:
		upd.ToolStatus = state.String()
	}

	if v := part.Get("output"); v.Exists() {
		s := v.String()
		upd.Output = &s
	} else if v := state.Get("output"); v.Exists() {
		s := v.String()
		upd.Output = &s
	}

	if v := part.Get("errorText"); v.Exists() {
		s := v.String()
		upd.ErrorText = &s
	} else if v := state.Get("error"); v.Exists() {
		s := v.String()
		upd.ErrorText = &s
	}

	if v := part.Get("input"); v.IsObject() {
		upd.Input = v.Value().(map[string]interface{})
	} else if v := state.Get("input"); v.IsObject() {
		upd.Input = v.Value().(map[string]interface{})
	}

	if upd.Title == nil {
		if v := state.Get("title"); v.Exists() {
			s := v.String()
			upd.Title = &s
		}
	}

	return upd
}

func firstString(v gjson.Result, paths ...string) string {
	for _, path := range paths {
		if r := v.Get(path); r.Exists() && r.Type == gjson.String {
			return r.String()
		}
	}
	return ""
}
