package geom

import (
	"reflect"
	"testing"
)

func TestAddSub(t *testing.T) {
	p := New(2, 3)
	if got := p.Add(Right); got != New(3, 3) {
		t.Fatalf("Add(Right) = %v, want %v", got, New(3, 3))
	}

	a, b := New(5, 5), New(2, 3)
	if got, want := a.Sub(b), (Direction{3, 2, 0}); got != want {
		t.Fatalf("Sub = %v, want %v", got, want)
	}
}

func TestRoundTo(t *testing.T) {
	cases := []struct {
		p    Position
		want Position
	}{
		{New(5, 7), New(4, 6)},
		{New(-1, -1), New(-2, -2)},
		{New(0, 0), New(0, 0)},
		{New(4, 4), New(4, 4)},
	}
	for _, c := range cases {
		if got := c.p.RoundTo(2); got != c.want {
			t.Errorf("RoundTo(%v, 2) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestDistance(t *testing.T) {
	if got := New(0, 0).Distance(New(3, 4)); got != 7 {
		t.Fatalf("Distance = %d, want 7", got)
	}
	if got := New(3, 4).Distance(New(0, 0)); got != 7 {
		t.Fatalf("Distance (reversed) = %d, want 7", got)
	}
}

func TestDirectionTo(t *testing.T) {
	origin := New(0, 0)
	cases := []struct {
		name string
		to   Position
		want Direction
	}{
		{"right", New(3, 0), Right},
		{"left", New(-3, 0), Left},
		{"down", New(0, 3), Down},
		{"up", New(0, -3), Up},
		{"same", origin, None},
		{"tie prefers horizontal", New(3, 3), Right},
		{"tie in the other quadrant prefers left", New(-3, -3), Left},
	}
	for _, c := range cases {
		if got := origin.DirectionTo(c.to); got != c.want {
			t.Errorf("%s: DirectionTo(%v) = %v, want %v", c.name, c.to, got, c.want)
		}
	}
}

func TestIterLineTo(t *testing.T) {
	positions, dir := New(0, 0).IterLineTo(New(3, 0))
	if dir != Right {
		t.Fatalf("dir = %v, want Right", dir)
	}
	want := []Position{New(0, 0), New(1, 0), New(2, 0), New(3, 0)}
	if !reflect.DeepEqual(positions, want) {
		t.Fatalf("positions = %v, want %v", positions, want)
	}

	vertical, dir := New(0, 0).IterLineTo(New(0, -2))
	if dir != Up {
		t.Fatalf("dir = %v, want Up", dir)
	}
	wantVertical := []Position{New(0, 0), New(0, -1), New(0, -2)}
	if !reflect.DeepEqual(vertical, wantVertical) {
		t.Fatalf("positions = %v, want %v", vertical, wantVertical)
	}

	same, dir := New(2, 2).IterLineTo(New(2, 2))
	if dir != None {
		t.Fatalf("dir = %v, want None", dir)
	}
	if want := []Position{New(2, 2)}; !reflect.DeepEqual(same, want) {
		t.Fatalf("positions = %v, want %v", same, want)
	}
}

func TestIterArea(t *testing.T) {
	got := New(0, 0).IterArea(Direction{X: 2, Y: 2})
	want := []Position{New(0, 0), New(1, 0), New(0, 1), New(1, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("IterArea = %v, want %v", got, want)
	}
}

func TestCornerPos(t *testing.T) {
	p := New(10, 20)
	cases := []struct {
		dir  Direction
		want Position
	}{
		{Left, New(11, 21)},
		{Right, New(10, 20)},
		{Down, New(11, 20)},
		{Up, New(10, 21)},
		{None, New(10, 20)},
	}
	for _, c := range cases {
		if got := p.CornerPos(c.dir); got != c.want {
			t.Errorf("CornerPos(%v) = %v, want %v", c.dir, got, c.want)
		}
	}
}

func TestDefaultConnections(t *testing.T) {
	cases := []struct {
		p    Position
		want []Direction
	}{
		{New(0, 0), []Direction{Down, Left}},
		{New(1, 0), []Direction{Left, Up}},
		{New(1, 1), []Direction{Up, Right}},
		{New(0, 1), []Direction{Right, Down}},
		{New(2, 0), []Direction{Down, Left}},
		{New(3, 1), []Direction{Up, Right}},
	}
	for _, c := range cases {
		if got := c.p.DefaultConnections(); !reflect.DeepEqual(got, c.want) {
			t.Errorf("DefaultConnections(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}
