package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicReadPolicy(t *testing.T) {
	p := NewPublicReadPolicy("my-bucket")

	require.Len(t, p.Statement, 1)
	st := p.Statement[0]
	assert.Equal(t, "2012-10-17", p.Version)
	assert.Equal(t, "Allow", st.Effect)
	assert.Equal(t, "*", st.Principal)
	assert.Equal(t, []string{"s3:GetObject"}, st.Action)
	assert.Equal(t, []string{"arn:aws:s3:::my-bucket/*", "arn:aws:s3:::my-bucket/**/*"}, st.Resource)
}

func TestPolicy_jsonFieldNames(t *testing.T) {
	data, err := json.Marshal(NewPublicReadPolicy("my-bucket"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "Version")
	assert.Contains(t, doc, "Statement")

	stmts, ok := doc["Statement"].([]any)
	require.True(t, ok)
	require.Len(t, stmts, 1)
	st, ok := stmts[0].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"Sid", "Effect", "Principal", "Action", "Resource"} {
		assert.Contains(t, st, field)
	}
	assert.Len(t, st, 5)
}

func TestPublishPolicy(t *testing.T) {
	dst := newMockDest()

	require.NoError(t, PublishPolicy(context.Background(), dst, false, nil))
	require.Len(t, dst.policies, 1)
	assert.Equal(t, NewPublicReadPolicy("my-bucket"), dst.policies[0])
}

func TestPublishPolicy_failure(t *testing.T) {
	denied := errors.New("access denied")
	dst := newMockDest()
	dst.policyErr = denied

	err := PublishPolicy(context.Background(), dst, false, nil)
	assert.ErrorIs(t, err, ErrPolicy)
	assert.ErrorIs(t, err, denied)

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "my-bucket", se.Bucket)
}

func TestPublishPolicy_dryRun(t *testing.T) {
	dst := newMockDest()

	require.NoError(t, PublishPolicy(context.Background(), dst, true, nil))
	assert.Empty(t, dst.events)
}
