package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret!")
	assert.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret!", hash)

	assert.True(t, CheckPassword("Sup3rSecret!", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "too short",
			password: "Ab1",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "only lowercase",
			password: "alllowercase",
			wantErr:  ErrPasswordTooWeak,
		},
		{
			name:     "upper lower number",
			password: "Passw0rdless",
			wantErr:  nil,
		},
		{
			name:     "lower number special",
			password: "pass-w0rd-ok",
			wantErr:  nil,
		},
		{
			name:     "two classes only",
			password: "password123",
			wantErr:  ErrPasswordTooWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
