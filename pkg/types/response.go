package types

// SuccessEnvelope wraps every successful payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Violations maps a request field to the rule it broke.
type Violations map[string]string

// Add records msg for field unless the field already has a violation.
func (v Violations) Add(field, msg string) {
	if _, ok := v[field]; ok {
		return
	}
	v[field] = msg
}

func (v Violations) Empty() bool {
	return len(v) == 0
}

// MessagePayload is returned by endpoints that only acknowledge an action.
type MessagePayload struct {
	Message string `json:"message"`
}
