package controllers

import (
	"testing"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestDefaultProgressFirstNodeStartsAvailable(t *testing.T) {
	node := &models.CourseNode{Order: 1}
	node.ID = 100

	p := defaultProgress(7, node)
	assert.Equal(t, models.ProgressAvailable, p.Status)
	assert.Equal(t, uint(7), p.UserID)
	assert.Equal(t, uint(100), p.NodeID)
}

func TestDefaultProgressLaterNodesStartLocked(t *testing.T) {
	for _, order := range []int{2, 3, 5} {
		node := &models.CourseNode{Order: order}
		node.ID = uint(200 + order)

		p := defaultProgress(7, node)
		assert.Equal(t, models.ProgressLocked, p.Status)
	}
}

func TestDefaultProgressIsNotPersisted(t *testing.T) {
	// A zero ID marks the row as in-memory only. The update path creates
	// it inside its own transaction after authorization succeeds, so a
	// denied request leaves no row behind.
	node := &models.CourseNode{Order: 3}
	node.ID = 3

	p := defaultProgress(7, node)
	assert.Zero(t, p.ID)
}
