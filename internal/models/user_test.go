package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionValid(t *testing.T) {
	assert.True(t, SubscriptionStarter.Valid())
	assert.True(t, SubscriptionPro.Valid())
	assert.True(t, SubscriptionBusiness.Valid())
	assert.False(t, Subscription("premium").Valid())
	assert.False(t, Subscription("").Valid())
}
