package utils

import "testing"

func TestAverage(t *testing.T) {
	tests := []struct {
		in   []int
		want int
	}{
		{nil, 0},
		{[]int{7}, 7},
		{[]int{10, 20, 30}, 20},
		{[]int{1, 2}, 1},
	}
	for _, tt := range tests {
		if got := Average(tt.in...); got != tt.want {
			t.Errorf("Average(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(25, 100); got != 25 {
		t.Errorf("Percent(25, 100) = %v, want 25", got)
	}
	if got := Percent(3, 0); got != 0 {
		t.Errorf("Percent(3, 0) = %v, want 0", got)
	}
}

func TestColoredBlock(t *testing.T) {
	want := "\033[48;2;1;2;3m  \033[0m"
	if got := ColoredBlock("  ", 1, 2, 3); got != want {
		t.Errorf("ColoredBlock = %q, want %q", got, want)
	}
}
