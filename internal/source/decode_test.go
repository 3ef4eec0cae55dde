package source

import (
	"testing"

	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/feed"
	"github.com/stretchr/testify/require"
)

func TestDecode_NewActivity(t *testing.T) {
	msg, err := Decode(EventNewActivity, []byte(`{
		"id": "a1",
		"type": "pesagem_criada",
		"message": "Pesagem 123 registrada",
		"details": {"ticket": "123", "peso": 32000},
		"timestamp": "2024-05-01T10:00:00.000Z",
		"read": true,
		"user": {"name": "Carlos", "avatar": "/c.png"}
	}`))
	require.NoError(t, err)

	na, ok := msg.(feed.NewActivity)
	require.True(t, ok)
	require.Equal(t, "a1", na.Activity.ID)
	require.Equal(t, activity.TypeWeighingCreated, na.Activity.Type)
	require.False(t, na.Activity.Read)
	require.Equal(t, "Carlos", na.Activity.User.Name)
	require.JSONEq(t, `{"ticket": "123", "peso": 32000}`, string(na.Activity.Details))
}

func TestDecode_DeliveriesUpdate(t *testing.T) {
	msg, err := Decode(EventDeliveriesUpdate, []byte(`[
		{"id":"d1","ticket":"T-1","cliente":"Coop","motorista":"João","placa":"ABC1D23",
		 "produto":"Soja","origem":"Sorriso","destino":"Santos","status":"em_transito",
		 "progress":40,"updatedAt":"2024-05-01T10:00:00.000Z"}
	]`))
	require.NoError(t, err)

	du, ok := msg.(feed.DeliveriesUpdate)
	require.True(t, ok)
	require.Len(t, du.Deliveries, 1)
	require.Equal(t, "ABC1D23", du.Deliveries[0].Placa)
	require.Equal(t, 40, du.Deliveries[0].Progress)
}

func TestDecode_NullDeliveriesIsEmptySnapshot(t *testing.T) {
	msg, err := Decode(EventDeliveriesUpdate, []byte(`null`))
	require.NoError(t, err)
	require.NotNil(t, msg.(feed.DeliveriesUpdate).Deliveries)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("user_typing", []byte(`{}`))
	require.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Decode(EventNewActivity, []byte(`[1,2]`))
	require.ErrorIs(t, err, ErrMalformedPayload)

	_, err = DecodeEnvelope([]byte(`not json`))
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecodeEnvelope(t *testing.T) {
	msg, err := DecodeEnvelope([]byte(`{"event":"new_activity","data":{"id":"a9","type":"usuario_login"}}`))
	require.NoError(t, err)
	require.Equal(t, "a9", msg.(feed.NewActivity).Activity.ID)
}
