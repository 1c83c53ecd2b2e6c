package pickup

import (
	"fmt"

	"github.com/redeemkit/redeemkit/pkg/qrcode"
)

// pickupEmailBody builds the ready-for-pickup email with the verify URL
// embedded both as a QR image and as a plain link.
func pickupEmailBody(pickingRef, verifyURL string) (string, error) {
	dataURI, err := qrcode.RenderDataURI(verifyURL, qrcode.LevelLow, 256)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`<html><body>
<h2>Order %s is ready for pickup</h2>
<p>Show this code at the counter. Staff will scan it to hand over your order:</p>
<img src=%q alt="pickup QR code" width="256" height="256"/>
<p style="color:#666;font-size:12px">Or open <a href=%q>this link</a> on your phone and show the screen.</p>
</body></html>`, pickingRef, dataURI, verifyURL), nil
}
