package report

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// ProductBarcodePNG encodes a product id as a Code128 barcode image.
func ProductBarcodePNG(productID uint) ([]byte, error) {
	bc, err := code128.Encode(fmt.Sprintf("%08d", productID))
	if err != nil {
		return nil, fmt.Errorf("report: encode barcode: %w", err)
	}

	scaled, err := barcode.Scale(bc, 300, 120)
	if err != nil {
		return nil, fmt.Errorf("report: scale barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("report: render barcode: %w", err)
	}
	return buf.Bytes(), nil
}
