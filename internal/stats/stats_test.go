package stats

import "testing"

func TestGrossWPM(t *testing.T) {
	// 300 chars in 60 seconds = 60 WPM
	if got := GrossWPM(300, 60); got != 60 {
		t.Errorf("GrossWPM(300, 60) = %v, want 60", got)
	}
	// 150 chars in 30 seconds = 60 WPM
	if got := GrossWPM(150, 30); got != 60 {
		t.Errorf("GrossWPM(150, 30) = %v, want 60", got)
	}
	if got := GrossWPM(100, 0); got != 0 {
		t.Errorf("GrossWPM(100, 0) = %v, want 0", got)
	}
}

func TestNetWPM(t *testing.T) {
	// 300 chars, 60 seconds, 10 errors = 60 - 10 = 50 WPM
	if got := NetWPM(300, 60, 10); got != 50 {
		t.Errorf("NetWPM(300, 60, 10) = %v, want 50", got)
	}
	if got := NetWPM(100, 0, 5); got != 0 {
		t.Errorf("NetWPM(100, 0, 5) = %v, want 0", got)
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(90, 100); got != 90 {
		t.Errorf("Accuracy(90, 100) = %v, want 90", got)
	}
	if got := Accuracy(0, 0); got != 100 {
		t.Errorf("Accuracy(0, 0) = %v, want 100", got)
	}
	if got := Accuracy(100, 100); got != 100 {
		t.Errorf("Accuracy(100, 100) = %v, want 100", got)
	}
}
