//go:build integration

package cases

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baechuer/contacts-service/internal/infrastructure/messaging/rabbitmq"
	itinfra "github.com/baechuer/contacts-service/test/integration/infra"
)

func Test_RequestEmail_PublishesLink_AndConfirms(t *testing.T) {
	d := MustNewDeps(t, mustEnv(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	ch, msgs, err := itinfra.BindTempQueue(d.AMQP, d.Exchange, "auth.email.#")
	require.NoError(t, err)
	defer ch.Close()

	_, err = d.Auth.Signup(ctx, "verify", "verify@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, d.Auth.RequestEmailVerification(ctx, "verify@example.com"))

	msg, ok := itinfra.ConsumeOne(msgs, 3*time.Second)
	require.True(t, ok, "timeout waiting for message")
	require.Equal(t, rabbitmq.RoutingKeyVerifyEmail, msg.RoutingKey)
	require.NotEmpty(t, msg.MessageId)

	var body struct {
		Email string `json:"email"`
		URL   string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	require.Equal(t, "verify@example.com", body.Email)
	require.True(t, strings.HasPrefix(body.URL, verifyBaseURL), body.URL)

	token := strings.TrimPrefix(body.URL, verifyBaseURL)

	already, err := d.Auth.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	require.False(t, already)

	already, err = d.Auth.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	require.True(t, already)

	// confirmed users get nothing further
	require.NoError(t, d.Auth.RequestEmailVerification(ctx, "verify@example.com"))
	_, ok = itinfra.ConsumeOne(msgs, 500*time.Millisecond)
	require.False(t, ok)
}

func Test_RabbitMQ_NoRoute_ReturnsError(t *testing.T) {
	env := mustEnv(t)
	d := MustNewDeps(t, env)

	ch, err := d.AMQP.Channel()
	require.NoError(t, err)
	defer ch.Close()

	const noRouteExchange = "noroute.contacts.events"
	require.NoError(t, ch.ExchangeDeclare(noRouteExchange, "topic", true, false, false, false, nil))

	pub, err := rabbitmq.NewPublisher(env.RabbitURL, noRouteExchange)
	require.NoError(t, err)
	defer pub.Close()

	err = pub.PublishVerifyEmail(context.Background(), newVerifyEvent())
	require.Error(t, err)
	require.Contains(t, err.Error(), "rabbitmq unroutable")
}
