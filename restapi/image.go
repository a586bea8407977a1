package restapi

import (
	"bytes"
	"image"
	_ "image/jpeg"
	"image/png"
)

// Image decodes JPEG or PNG response bodies.
func Image() ResponseCodec[image.Image] {
	return CodecFunc[image.Image](func(data []byte) (image.Image, error) {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, codecErr("decode image", KindDecode, err)
		}
		return img, nil
	})
}

// ImageCache caches decoded images, persisted as PNG.
func ImageCache(store Store) Persisted[image.Image] {
	return Persisted[image.Image]{
		Codec: Image(),
		Encode: func(img image.Image) ([]byte, error) {
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return nil, codecErr("encode cache entry", KindSerialize, err)
			}
			return buf.Bytes(), nil
		},
		Store: store,
	}
}
