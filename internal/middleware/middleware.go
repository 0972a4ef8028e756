package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/lexicon/internal/handlers"
	"github.com/akolanti/lexicon/internal/metrics"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	preflight  bool
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var HealthHandler = Wrap(handlers.HealthHandler)
var ChatHandler = Wrap(handlers.ChatHandler)
var CollectionsHandler = Wrap(handlers.CollectionsHandler)
var IndexPDFHandler = Wrap(handlers.IndexPDFHandler)
var IndexCSVHandler = Wrap(handlers.IndexCSVHandler)
var IndexURLHandler = Wrap(handlers.IndexURLHandler)
var IndexFileHandler = Wrap(handlers.IndexFileHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest || re.preflight {
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")

	re = corsHeaders(re)
	if re.preflight {
		return re
	}
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}

	return re
}
