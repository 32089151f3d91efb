package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo pairs a machine code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a storage error into a code plus a message a user can
// act on. Constraint details come from the typed pq error, not the message
// text, so driver wording changes don't break the mapping. context names the
// operation, e.g. "create product".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseUniqueViolation(pqErr)
		case pgForeignKeyViolation:
			return parseForeignKeyViolation(pqErr)
		case pgNotNullViolation:
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "A required field is missing: " + pqErr.Column,
			}
		case pgCheckViolation:
			return parseCheckViolation(pqErr)
		}
	}

	// Connectivity problems surface as plain errors from the pool
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The database is unreachable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func parseUniqueViolation(pqErr *pq.Error) ErrorInfo {
	switch {
	case strings.Contains(pqErr.Constraint, "users_email") || strings.Contains(pqErr.Constraint, "idx_users_email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already in use"}
	case strings.Contains(pqErr.Constraint, "idx_cart_items_user_product"):
		// Callers merge on conflict; seeing this means a non-upsert insert raced
		return ErrorInfo{Code: ResourceConflict, Message: "Item is already in the cart"}
	case strings.Contains(pqErr.Constraint, "idx_favorites_user_product"):
		return ErrorInfo{Code: FavoriteAlreadyExists, Message: "Product is already in favorites"}
	case strings.Contains(pqErr.Constraint, "idx_reviews_user_product"):
		return ErrorInfo{Code: ReviewAlreadyExists, Message: "You have already reviewed this product"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "The record already exists"}
	}
}

func parseForeignKeyViolation(pqErr *pq.Error) ErrorInfo {
	switch {
	case strings.Contains(pqErr.Constraint, "user"):
		return ErrorInfo{Code: ResourceNotFound, Message: "User does not exist"}
	case strings.Contains(pqErr.Constraint, "product"):
		return ErrorInfo{Code: ProductNotFound, Message: "Product does not exist"}
	default:
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}
}

func parseCheckViolation(pqErr *pq.Error) ErrorInfo {
	switch {
	case strings.Contains(pqErr.Constraint, "quantity"):
		return ErrorInfo{Code: CartInvalidQuantity, Message: "Quantity must be greater than 0"}
	case strings.Contains(pqErr.Constraint, "rating"):
		return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
	default:
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input data"}
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "cart"):
		return "Item not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "favorite"):
		return "Favorite not found"
	}
	return "The requested record was not found"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the record. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update the record. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the record. Please try again later"
	}
	return "An internal error occurred. Please try again later"
}

// ParseAndRespond parses a storage error and writes the standard error body.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
