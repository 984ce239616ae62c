package services

import "errors"

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrRunFinished     = errors.New("run already finished")
	ErrItemNotFound    = errors.New("library item not found")
	ErrSessionNotFound = errors.New("chat session not found")
	ErrPostNotFound    = errors.New("post not found")
)

// MissingInputError means the caller supplied no usable prompt or image. The
// operation never starts and no network call is made; Message is the Arabic
// text shown to the user.
type MissingInputError struct {
	Message string
}

func (e *MissingInputError) Error() string { return "missing input: " + e.Message }

// Arabic validation messages, matching the product's blocking alerts.
const (
	msgNeedProductImages = "يرجى رفع صورة منتج واحدة على الأقل."
	msgNeedProductImage  = "يرجى رفع صورة المنتج."
	msgNeedAnglesScenes  = "يرجى اختيار زاوية وبيئة واحدة على الأقل."
	msgNeedEditPrompt    = "يرجى كتابة وصف التعديل المطلوب."
	msgNeedVideoPrompt   = "يرجى كتابة وصف الفيديو أو رفع صورة لتحريكها."
	msgNeedChatMessage   = "يرجى كتابة رسالة."
	msgNeedStyleImages   = "يرجى رفع صورة المنتج وصورة التصميم المرجعي."
	msgNeedImagePrompt   = "يرجى كتابة وصف الصورة المطلوبة."
)

func missingInput(msg string) error {
	return &MissingInputError{Message: msg}
}

// IsMissingInput reports whether err is a local validation failure.
func IsMissingInput(err error) bool {
	var mi *MissingInputError
	return errors.As(err, &mi)
}
