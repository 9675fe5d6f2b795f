package crud

import "github.com/angelmondragon/estatedesk-backend/pkg/enums"

// Notice is a toast shown to the admin after an operation.
type Notice struct {
	Level   enums.NoticeLevel `json:"level"`
	Message string            `json:"message"`
}

func Success(msg string) *Notice { return &Notice{Level: enums.NoticeLevelSuccess, Message: msg} }
func Info(msg string) *Notice    { return &Notice{Level: enums.NoticeLevelInfo, Message: msg} }
func Warning(msg string) *Notice { return &Notice{Level: enums.NoticeLevelWarning, Message: msg} }
func Failure(msg string) *Notice { return &Notice{Level: enums.NoticeLevelError, Message: msg} }
