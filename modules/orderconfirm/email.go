package orderconfirm

import (
	"fmt"

	"github.com/redeemkit/redeemkit/pkg/qrcode"
)

// confirmationEmailBody builds the QR delivery email. The image is embedded
// as a data URI so the code survives forwarding and offline viewing; the raw
// payload is included as a fallback for clients that strip inline images.
func confirmationEmailBody(orderRef, payload string) (string, error) {
	dataURI, err := qrcode.RenderDataURI(payload, qrcode.LevelMedium, 256)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`<html><body>
<h2>Order %s is confirmed</h2>
<p>Show this code when you collect your order:</p>
<img src=%q alt="confirmation QR code" width="256" height="256"/>
<p style="color:#666;font-size:12px">If the image does not display, present this code instead:</p>
<pre style="font-size:11px">%s</pre>
</body></html>`, orderRef, dataURI, payload), nil
}
