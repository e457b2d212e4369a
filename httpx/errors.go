package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/avetra/committee-portal/log"
	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/store"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	w.WriteHeader(http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// Error translates a domain error into the matching HTTP response:
// validation 400, unsupported media 415, not found 404, exhausted id
// collisions 409, storage unavailable 503, anything else 500.
func Error(w http.ResponseWriter, code string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, code, "%s", ve.Error())
	case errors.Is(err, model.ErrUnsupportedMedia):
		LogStatusMsg(w, http.StatusUnsupportedMediaType, log.DebugLevel, code, "%s", err.Error())
	case errors.Is(err, store.ErrNotFound):
		LogNotFound(w, code, "")
	case errors.Is(err, store.ErrDuplicateSubmissionID):
		LogStatusMsg(w, http.StatusConflict, log.WarnLevel, code, "%s", err.Error())
	case errors.Is(err, store.ErrUnavailable):
		LogStatusMsg(w, http.StatusServiceUnavailable, log.ErrorLevel, code, "%s", err.Error())
	default:
		LogInternalError(w, code, err)
	}
}
