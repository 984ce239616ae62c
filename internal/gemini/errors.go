package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies gateway failures. Callers switch on the kind instead
// of probing error strings.
type ErrorKind string

const (
	KindQuotaOrAuth       ErrorKind = "quota_or_auth"
	KindNoImageReturned   ErrorKind = "no_image_returned"
	KindNoVideoURI        ErrorKind = "no_video_uri"
	KindEmptyResponse     ErrorKind = "empty_response"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindTimeout           ErrorKind = "timeout"
	KindUpstream          ErrorKind = "upstream"
)

// Arabic user-facing messages. Internal logs stay English; these are what
// the UI shows.
const (
	msgQuotaOrAuth = "لقد تجاوزت حصة الاستخدام المتاحة أو أن المفتاح غير صالح. يرجى اختيار مفتاح API مربوط بمشروع مدفوع (Billing enabled)."
	msgNoImage     = "الموديل لم يرجع أي بيانات صورية."
	msgNoVideoURI  = "فشل استخراج رابط الفيديو."
	msgEmpty       = "استجابة فارغة من الموديل."
	msgMalformed   = "تعذر قراءة استجابة الموديل."
	msgTimeout     = "انتهت مهلة توليد الفيديو. يرجى المحاولة مرة أخرى."
)

// Error carries the classified kind, the localized message shown to the user
// and the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string // Arabic, user-facing
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gemini: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("gemini: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf extracts the error kind, or KindUpstream for unclassified errors.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUpstream
}

// UserMessage returns the Arabic message for classified errors, falling back
// to the raw error text.
func UserMessage(err error) string {
	var ge *Error
	if errors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	return err.Error()
}

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// isQuotaOrAuth is the single classification funnel for credential and quota
// failures, mirroring the upstream API's signals: 429 / RESOURCE_EXHAUSTED /
// quota wording, and invalid-key shapes (401/403, "Requested entity was not
// found", "API key not valid").
func isQuotaOrAuth(statusCode int, body string) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	for _, marker := range []string{
		"RESOURCE_EXHAUSTED",
		"quota",
		"Requested entity was not found",
		"API key not valid",
		"API_KEY_INVALID",
	} {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
