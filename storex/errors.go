package storex

import (
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// StoreErrors is the error registry shared by every storex provider
var (
	StoreErrors = errx.NewRegistry("STORE")

	ErrInvalidQuery     = StoreErrors.Register("INVALID_QUERY", errx.TypeBadRequest, http.StatusBadRequest, "Invalid query")
	ErrConnectionFailed = StoreErrors.Register("CONNECTION_FAILED", errx.TypeUnavailable, http.StatusServiceUnavailable, "Record store unreachable")

	// Reading records
	ErrSQLQueryFailed    = StoreErrors.Register("SQL_QUERY_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to query rows")
	ErrSQLScanFailed     = StoreErrors.Register("SQL_SCAN_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to scan a row into a record")
	ErrMongoFindFailed   = StoreErrors.Register("MONGO_FIND_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to find documents")
	ErrMongoDecodeFailed = StoreErrors.Register("MONGO_DECODE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to decode a document into a record")

	// Saving records
	ErrTxBeginFailed     = StoreErrors.Register("TX_BEGIN_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to begin transaction")
	ErrTxCommitFailed    = StoreErrors.Register("TX_COMMIT_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to commit saved records")
	ErrSQLExecFailed     = StoreErrors.Register("SQL_EXEC_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to insert a record")
	ErrMongoInsertFailed = StoreErrors.Register("MONGO_INSERT_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to insert documents")
)

// IsConnectionFailed reports whether a provider could not reach its store
func IsConnectionFailed(err error) bool {
	return errx.IsCode(err, ErrConnectionFailed)
}
