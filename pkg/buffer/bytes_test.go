package buffer

import "testing"

func TestBytesPresets(t *testing.T) {
	for _, tc := range []struct {
		name string
		new  func() *RingBuffer
		want int
	}{
		{"1KB", Bytes1KB, 1 << 10},
		{"4KB", Bytes4KB, 1 << 12},
		{"16KB", Bytes16KB, 1 << 14},
		{"64KB", Bytes64KB, 1 << 16},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var q Queue = tc.new()
			if q.Cap() != tc.want {
				t.Errorf("cap=%d, want=%d", q.Cap(), tc.want)
			}
			if _, err := q.Write([]byte("ping")); err != nil {
				t.Fatalf("write with error: %v", err)
			}
			got := make([]byte, 4)
			if _, err := q.Read(got); err != nil {
				t.Fatalf("read with error: %v", err)
			}
			if string(got) != "ping" {
				t.Errorf("got=%q", got)
			}
			q.Stop()
			q.Destroy()
		})
	}
}
