package ie

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// HSV is hue in degrees [0,360), saturation/value as percent [0,100].
type HSV struct {
	H uint16
	S, V uint8
}

// HSVToRGB converts hue/saturation/value to RGB using the standard sector
// decomposition.
func HSVToRGB(c HSV) RGB {
	h := c.H % 360
	s := float32(c.S) / 100.0
	v := float32(c.V) / 100.0

	hh := float32(h) / 60.0
	sector := uint8(hh)
	ff := hh - float32(sector)

	p := v * (1.0 - s)
	q := v * (1.0 - s*ff)
	t := v * (1.0 - s*(1.0-ff))

	scale := func(f float32) uint8 { return uint8(f * 255.0) }

	switch sector {
	case 0:
		return RGB{scale(v), scale(t), scale(p)}
	case 1:
		return RGB{scale(q), scale(v), scale(p)}
	case 2:
		return RGB{scale(p), scale(v), scale(t)}
	case 3:
		return RGB{scale(p), scale(q), scale(v)}
	case 4:
		return RGB{scale(t), scale(p), scale(v)}
	default:
		return RGB{scale(v), scale(p), scale(q)}
	}
}

func minOf3(a, b, c int32) int32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func maxOf3(a, b, c int32) int32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

// RGBToHSV is the inverse conversion, used by round-trip tests.
func RGBToHSV(c RGB) HSV {
	r, g, b := int32(c.R), int32(c.G), int32(c.B)
	cmin := minOf3(r, g, b)
	cmax := maxOf3(r, g, b)
	delta := cmax - cmin

	var hsv HSV
	if cmin == cmax {
		hsv.S, hsv.H = 0, 0
	} else {
		hsv.S = uint8(100 - (100*cmin)/cmax)
		switch cmax {
		case r:
			hsv.H = uint16(((60*(g-b)/delta)%360 + 360) % 360)
		case g:
			hsv.H = uint16((60*(b-r)/delta + 120 + 360) % 360)
		default:
			hsv.H = uint16((60*(r-g)/delta + 240 + 360) % 360)
		}
	}
	hsv.V = uint8(100 * cmax / 255)
	return hsv
}

// Brightness scales a color by a [0,1] factor, clamping each channel.
func Brightness(c RGB, factor float32) RGB {
	scale := func(v uint8) uint8 {
		f := float32(v) * factor
		if f < 0 {
			f = 0
		}
		if f > 255 {
			f = 255
		}
		return uint8(f + 0.5)
	}
	return RGB{scale(c.R), scale(c.G), scale(c.B)}
}
