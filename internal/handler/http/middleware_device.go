package http

import (
	"net/http"
	"strings"

	"github.com/sevenoy/GeminiMeds/internal/utils"
)

// maxDeviceIDLength bounds the X-Device-ID value copied into change events.
const maxDeviceIDLength = 128

// withDeviceID stores the X-Device-ID request header in the request context.
// Change events published while serving the request are stamped with it, so
// subscribers can tell their own writes from other devices' writes.
func withDeviceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := strings.TrimSpace(r.Header.Get(utils.DeviceIDHeader))
		if deviceID == "" || len(deviceID) > maxDeviceIDLength {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithDeviceID(r.Context(), deviceID)))
	})
}
