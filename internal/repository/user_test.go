package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func duplicateKeyError(index string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{
				Code:    11000,
				Message: "E11000 duplicate key error collection: accounts.users index: " + index + " dup key",
			},
		},
	}
}

func TestMapDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "username index", err: duplicateKeyError("username_1"), want: ErrDuplicateUsername},
		{name: "email index", err: duplicateKeyError("email_1"), want: ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapDuplicateKeyError(tt.err), tt.want)
		})
	}
}

func TestMapDuplicateKeyError_PassThrough(t *testing.T) {
	infra := errors.New("connection reset")
	assert.Equal(t, infra, mapDuplicateKeyError(infra))

	unknownIndex := duplicateKeyError("something_else_1")
	assert.Equal(t, unknownIndex, mapDuplicateKeyError(unknownIndex))
}
