package kit

import (
	"encoding/json"
	"net/http"
)

// HTTPDecoder extracts the typed request from an HTTP request.
type HTTPDecoder func(*http.Request) (any, error)

// HTTPHandler adapts an Endpoint to net/http. Errors are written as
// {"error": msg} with the status from StatusOf.
func HTTPHandler(endpoint Endpoint, decode HTTPDecoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := ctx.Value(TransportKey).(string); !ok {
			ctx = WithTransport(ctx, TransportHTTP)
		}

		request, err := decode(r)
		if err != nil {
			WriteError(w, StatusOf(err), err.Error())
			return
		}
		resp, err := endpoint(ctx, request)
		if err != nil {
			WriteError(w, StatusOf(err), err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}
