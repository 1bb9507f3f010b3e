package eventx

import (
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	e := NewEvent(TypeRecordInvalid, "serialx", map[string]any{"schema": "User"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Time.IsZero())

	data, err := ToJSON(e)
	require.NoError(t, err)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, e.ID, back.ID)
	assert.Equal(t, "User", back.Data["schema"])
	assert.True(t, e.Time.Equal(back.Time))

	_, err = FromJSON([]byte("{"))
	assert.True(t, errx.IsCode(err, ErrSerializationFailed))
}

func TestEventValidate(t *testing.T) {
	assert.NoError(t, NewEvent(TypeCheckFinished, "x", nil).Validate())
	assert.True(t, errx.IsCode(Event{}.Validate(), ErrInvalidEventType))
}
