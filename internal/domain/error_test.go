package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "Cart is empty"},
			expected: "Cart is empty",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EINVALID, Op: "cart.checkout", Message: "Cart is empty"},
			expected: "cart.checkout: Cart is empty",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EUNAVAIL,
				Op:      "catalog.get",
				Message: "catalog unavailable",
				Err:     errors.New("connection refused"),
			},
			expected: "catalog.get: catalog unavailable: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to save",
				Err:     errors.New("disk full"),
			},
			expected: "failed to save: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "empty cart", err: ErrEmptyCart, expected: EINVALID},
		{name: "wrapped domain error", err: fmt.Errorf("wrapped: %w", NotFound("catalog.get", "product", "p-1")), expected: ENOTFOUND},
		{name: "non-domain error", err: errors.New("some error"), expected: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error with message", err: ErrEmptyCart, expected: "Cart is empty"},
		{
			name:     "internal error hides message",
			err:      Internal(errors.New("disk path leaked"), "persist.save", "write failed"),
			expected: "An internal error occurred. Please try again later.",
		},
		{
			name:     "non-domain error returns generic message",
			err:      errors.New("some internal detail"),
			expected: "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	if got := ErrorOp(ErrEmptyCart); got != "cart.checkout" {
		t.Errorf("ErrorOp(ErrEmptyCart) = %q, want %q", got, "cart.checkout")
	}
	if got := ErrorOp(errors.New("test")); got != "" {
		t.Errorf("ErrorOp(non-domain) = %q, want empty", got)
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		underlying := errors.New("redis timeout")
		err := WrapError(underlying, EUNAVAIL, "catalog.get", "catalog unavailable")

		var domainErr *Error
		if !errors.As(err, &domainErr) {
			t.Fatal("WrapError should return *Error")
		}
		if domainErr.Code != EUNAVAIL {
			t.Errorf("Code = %q, want %q", domainErr.Code, EUNAVAIL)
		}
		if !errors.Is(err, underlying) {
			t.Error("should wrap underlying error")
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if err := WrapError(nil, EINTERNAL, "test", "test"); err != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", err)
		}
	})
}

func TestIsCode(t *testing.T) {
	if !IsCode(NotFound("catalog.get", "product", "x"), ENOTFOUND) {
		t.Error("IsCode(NotFound, ENOTFOUND) should be true")
	}
	if IsCode(ErrEmptyCart, ENOTFOUND) {
		t.Error("IsCode(ErrEmptyCart, ENOTFOUND) should be false")
	}
	if !IsCode(errors.New("boom"), EINTERNAL) {
		t.Error("non-domain errors should report EINTERNAL")
	}
	if IsCode(nil, EINTERNAL) {
		t.Error("IsCode(nil) should be false")
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single field error", func(t *testing.T) {
		err := NewValidationError("cart.add", "title", "title is required")

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatal("NewValidationError should return *ValidationError")
		}

		expected := "cart.add: title: title is required"
		if ve.Error() != expected {
			t.Errorf("Error() = %q, want %q", ve.Error(), expected)
		}
	})

	t.Run("multiple field errors", func(t *testing.T) {
		err := NewValidationError("cart.add", "title", "title is required")
		err = AddFieldError(err, "price", "price must not be negative")

		if fields := GetValidationFields(err); len(fields) != 2 {
			t.Errorf("Fields count = %d, want 2", len(fields))
		}
		if !IsValidationError(err) {
			t.Error("IsValidationError should be true")
		}
	})

	t.Run("non-validation error", func(t *testing.T) {
		if GetValidationFields(errors.New("test")) != nil {
			t.Error("GetValidationFields should return nil for non-validation error")
		}
	})
}

func TestPersistenceReadError(t *testing.T) {
	underlying := errors.New("unexpected end of JSON input")
	err := fmt.Errorf("load: %w", &PersistenceReadError{Key: "kinderkit.cart", Err: underlying})

	if !IsPersistenceReadError(err) {
		t.Fatal("IsPersistenceReadError should find wrapped error")
	}
	if !errors.Is(err, underlying) {
		t.Error("PersistenceReadError should unwrap to the decode error")
	}
	if IsPersistenceReadError(ErrEmptyCart) {
		t.Error("ErrEmptyCart is not a persistence error")
	}
}

func TestNotificationType_Valid(t *testing.T) {
	for _, typ := range NotificationTypes {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
		if DefaultIcon(typ) == "🔔" {
			t.Errorf("%q should have a dedicated icon", typ)
		}
	}

	if NotificationType("birthday").Valid() {
		t.Error("unknown type should be invalid")
	}
	if got := DefaultIcon("birthday"); got != "🔔" {
		t.Errorf("DefaultIcon(unknown) = %q, want fallback", got)
	}
}
