package domain

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRequest_LengthTagMatchesBounds(t *testing.T) {
	field, ok := reflect.TypeOf(PasswordRequest{}).FieldByName("Length")
	require.True(t, ok)
	require.Equal(t, fmt.Sprintf("min=%d,max=%d", MinPasswordLength, MaxPasswordLength), field.Tag.Get("validate"))
}

func TestDefaultPasswordRequest(t *testing.T) {
	req := DefaultPasswordRequest()
	require.Equal(t, PasswordRequest{Length: DefaultPasswordLength, IncludeNumbers: true, IncludeSymbols: true}, req)
	require.GreaterOrEqual(t, req.Length, MinPasswordLength)
	require.LessOrEqual(t, req.Length, MaxPasswordLength)
}
