package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

func TestLinkReferralBuildsAncestorChain(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB)
	a := createTestUser(t, "alice", models.UserActivated, nil)
	b := createTestUser(t, "bob", models.UserActivated, nil)
	c := createTestUser(t, "carol", models.UserActivated, nil)

	require.NoError(t, svc.LinkReferral(a.ID, b.ID))
	require.NoError(t, svc.LinkReferral(b.ID, c.ID))

	uplines, err := svc.Uplines(c.ID)
	require.NoError(t, err)
	require.Len(t, uplines, 2)
	assert.Equal(t, b.ID, uplines[0].UplineId)
	assert.Equal(t, 1, uplines[0].Level)
	assert.Equal(t, a.ID, uplines[1].UplineId)
	assert.Equal(t, 2, uplines[1].Level)
}

func TestLinkReferralSelfReferral(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB)
	a := createTestUser(t, "selfish", models.UserActivated, nil)

	err := svc.LinkReferral(a.ID, a.ID)
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestLinkReferralDuplicate(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB)
	a := createTestUser(t, "alice", models.UserActivated, nil)
	b := createTestUser(t, "bob", models.UserActivated, nil)
	c := createTestUser(t, "carol", models.UserActivated, nil)

	require.NoError(t, svc.LinkReferral(a.ID, b.ID))

	// Same pair again is a tolerated retry.
	require.NoError(t, svc.LinkReferral(a.ID, b.ID))

	// A different upline for an already linked downline is refused.
	err := svc.LinkReferral(c.ID, b.ID)
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)

	uplines, err := svc.Uplines(b.ID)
	require.NoError(t, err)
	require.Len(t, uplines, 1)
	assert.Equal(t, a.ID, uplines[0].UplineId)
}

func TestLinkReferralDepthBound(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB)

	// A chain two longer than the depth bound.
	chain := make([]*models.User, models.MaxReferralDepth+2)
	for i := range chain {
		chain[i] = createTestUser(t, fmt.Sprintf("link%d", i), models.UserActivated, nil)
		if i > 0 {
			require.NoError(t, svc.LinkReferral(chain[i-1].ID, chain[i].ID))
		}
	}

	deepest := chain[len(chain)-1]
	uplines, err := svc.Uplines(deepest.ID)
	require.NoError(t, err)
	require.Len(t, uplines, models.MaxReferralDepth)
	for i, edge := range uplines {
		assert.Equal(t, i+1, edge.Level)
	}
}

func TestTeamSummary(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewReferralService(testDB)
	root := createTestUser(t, "root", models.UserActivated, nil)
	d1a := createTestUser(t, "direct-a", models.UserActivated, nil)
	d1b := createTestUser(t, "direct-b", models.UserActivated, nil)
	d2 := createTestUser(t, "grandchild", models.UserActivated, nil)

	require.NoError(t, svc.LinkReferral(root.ID, d1a.ID))
	require.NoError(t, svc.LinkReferral(root.ID, d1b.ID))
	require.NoError(t, svc.LinkReferral(d1a.ID, d2.ID))

	summary, err := svc.TeamSummary(root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalDownlines)
	assert.Equal(t, int64(2), summary.PerLevel[1])
	assert.Equal(t, int64(1), summary.PerLevel[2])
	assert.Len(t, summary.DirectReferral, 2)
}
