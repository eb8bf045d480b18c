package routing

import "testing"

func TestFirstCollisionOnSegmentPicksClosestByT(t *testing.T) {
	ix := NewIndex([]Obstacle{
		{ID: 1, Center: pt(8, 0), Radius: 1},
		{ID: 2, Center: pt(3, 0), Radius: 1},
	})
	coll, hit := firstCollisionOnSegment(pt(0, 0), pt(10, 0), ix, nil)
	if !hit {
		t.Fatal("expected a collision")
	}
	if coll.Obstacle.ID != 2 {
		t.Errorf("expected the nearer obstacle (id 2) to win, got id %d", coll.Obstacle.ID)
	}
}

func TestFirstCollisionOnSegmentExcludesByIdentity(t *testing.T) {
	ix := NewIndex([]Obstacle{{ID: 1, Center: pt(0, 0), Radius: 5}})
	_, hit := firstCollisionOnSegment(pt(0, 0), pt(10, 0), ix, map[int64]bool{1: true})
	if hit {
		t.Fatal("excluded obstacle should not register as a collision")
	}
}

func TestSegmentIsSafeNoObstacles(t *testing.T) {
	ix := NewIndex(nil)
	if !segmentIsSafe(pt(0, 0), pt(1, 1), ix, nil) {
		t.Fatal("an empty index should never report a collision")
	}
}
