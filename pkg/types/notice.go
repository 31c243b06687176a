package types

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a transient acknowledgement shown next to a view.
type Notice struct {
	Level       NoticeLevel `json:"level"`
	Message     string      `json:"message"`
	Description string      `json:"description,omitempty"`
}

func SuccessNotice(description string) *Notice {
	return &Notice{Level: NoticeSuccess, Message: "Success", Description: description}
}

func ErrorNotice(description string) *Notice {
	return &Notice{Level: NoticeError, Message: "Error", Description: description}
}

func InfoNotice(message, description string) *Notice {
	return &Notice{Level: NoticeInfo, Message: message, Description: description}
}

// SuccessEnvelope wraps every view and action result. Notice rides along
// with the data so a client can render both from one response.
type SuccessEnvelope struct {
	Data   any     `json:"data"`
	Notice *Notice `json:"notice,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the failure shape. Details only appear for codes whose
// metadata allows them.
type ErrorEnvelope struct {
	Error  APIError `json:"error"`
	Notice *Notice  `json:"notice,omitempty"`
}
