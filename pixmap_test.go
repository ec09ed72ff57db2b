package ink

import (
	"image"
	"image/color"
	"testing"
)

// Verify at compile time that Pixmap implements image.Image.
var _ image.Image = (*Pixmap)(nil)

func TestPixmap_SetGetPixel(t *testing.T) {
	pm := NewPixmap(8, 8)

	if got := pm.GetPixel(3, 3); got != Transparent {
		t.Errorf("fresh pixmap pixel = %v, want transparent", got)
	}

	pm.SetPixel(3, 3, Red)
	if got := pm.GetPixel(3, 3); got != Red {
		t.Errorf("pixel = %v, want red", got)
	}

	// Out-of-range access is ignored / transparent, not a panic.
	pm.SetPixel(-1, 0, Red)
	pm.SetPixel(8, 8, Red)
	if got := pm.GetPixel(-1, 0); got != Transparent {
		t.Errorf("out of range pixel = %v, want transparent", got)
	}
}

func TestPixmap_ToImage(t *testing.T) {
	pm := NewPixmap(4, 4)
	pm.SetPixel(1, 2, Green)

	img := pm.ToImage()
	if img.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(1, 2); got != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("image pixel = %v, want green", got)
	}

	// The image is a copy.
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	if got := pm.GetPixel(0, 0); got != Transparent {
		t.Error("ToImage leaked the pixmap's backing storage")
	}
}

func TestPixmap_Data(t *testing.T) {
	pm := NewPixmap(2, 1)
	pm.SetPixel(1, 0, White)
	data := pm.Data()
	if len(data) != 8 {
		t.Fatalf("len(Data) = %d, want 8", len(data))
	}
	// Fixed RGBA channel order.
	want := []uint8{0, 0, 0, 0, 255, 255, 255, 255}
	for i, b := range want {
		if data[i] != b {
			t.Fatalf("Data[%d] = %d, want %d", i, data[i], b)
		}
	}
}

func TestPixmap_Scale(t *testing.T) {
	pm := NewPixmap(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			pm.SetPixel(x, y, Blue)
		}
	}

	small := pm.Scale(4, 4)
	if small.Width() != 4 || small.Height() != 4 {
		t.Fatalf("Scale dims = %dx%d, want 4x4", small.Width(), small.Height())
	}
	if got := small.GetPixel(2, 2); got != Blue {
		t.Errorf("scaled solid color = %v, want blue", got)
	}

	if empty := pm.Scale(0, 10); empty.Width() != 0 || empty.Height() != 0 {
		t.Error("non-positive scale dims should yield an empty pixmap")
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	img.SetNRGBA(2, 1, color.NRGBA{R: 255, A: 255})

	pm := FromImage(img)
	if got := pm.GetPixel(2, 1); got != Red {
		t.Errorf("pixel = %v, want red", got)
	}
	if got := pm.GetPixel(0, 0); got != Transparent {
		t.Errorf("pixel = %v, want transparent", got)
	}
}
