package mongodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/dinehub/pkg/mongodb"
)

func TestConnectRejectsBadURI(t *testing.T) {
	_, err := mongodb.Connect(context.Background(), "http://not-mongo", "dinehub")
	assert.ErrorContains(t, err, "mongodb: connect")
}

func TestDisconnectNil(t *testing.T) {
	assert.NoError(t, mongodb.Disconnect(context.Background(), nil))
}
