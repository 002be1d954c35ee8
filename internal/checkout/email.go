package checkout

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const logoCID = "logo-old-maastricht"

// LogoCID is the content id the HTML template references for the inline
// logo attachment.
func LogoCID() string { return logoCID }

type viewLineItem struct {
	name       string
	qty        int64
	totalCents int64
	unitCents  int64
}

// composeConfirmation renders the Dutch order confirmation from the
// provider's session record.
func composeConfirmation(session *ProviderSession) (text, htmlBody string) {
	items := make([]viewLineItem, 0, len(session.LineItems))
	var sum int64
	for _, li := range session.LineItems {
		name := li.Description
		if name == "" {
			name = "Product"
		}
		qty := li.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, viewLineItem{
			name:       name,
			qty:        qty,
			totalCents: li.AmountTotal,
			unitCents:  li.AmountTotal / qty,
		})
		sum += li.AmountTotal
	}

	totalCents := session.AmountTotal
	if totalCents == 0 {
		totalCents = sum
	}

	md := session.Metadata
	firstName := md["voornaam"]
	lastName := md["achternaam"]
	fullName := strings.TrimSpace(strings.Join(nonEmpty(firstName, lastName), " "))

	billing := address{
		street:     md["factuur_straat"],
		postalCode: md["factuur_postcode"],
		city:       md["factuur_plaats"],
		country:    md["factuur_land"],
	}
	shipping := address{
		street:     orDefault(md["verzend_straat"], billing.street),
		postalCode: orDefault(md["verzend_postcode"], billing.postalCode),
		city:       orDefault(md["verzend_plaats"], billing.city),
		country:    orDefault(md["verzend_land"], billing.country),
	}

	text = composeText(firstName, items, totalCents)
	htmlBody = composeHTML(fullName, session.CustomerEmail, md, billing, shipping, items, totalCents)
	return text, htmlBody
}

func composeText(firstName string, items []viewLineItem, totalCents int64) string {
	var b strings.Builder
	greeting := "Bedankt voor je bestelling!"
	if firstName != "" {
		greeting = fmt.Sprintf("Bedankt voor je bestelling, %s!", firstName)
	}
	b.WriteString(greeting + "\n\n")
	b.WriteString("We hebben je bestelling ontvangen en gaan ermee aan de slag. Hier is een overzicht:\n\n")
	for _, li := range items {
		fmt.Fprintf(&b, "- %s x %d — € %s\n", li.name, li.qty, formatCents(li.totalCents))
	}
	fmt.Fprintf(&b, "\nTotaal: € %s\n\n", formatCents(totalCents))
	b.WriteString("We gaan zo snel mogelijk met je bestelling aan de slag.")
	return b.String()
}

func composeHTML(fullName, email string, md map[string]string, billing, shipping address, items []viewLineItem, totalCents int64) string {
	var rows strings.Builder
	for _, li := range items {
		fmt.Fprintf(&rows, `<tr>
  <td style="padding:8px 0;border-bottom:1px solid #f2f2f2;">%s</td>
  <td align="right" style="padding:8px 0;border-bottom:1px solid #f2f2f2;white-space:nowrap;">&euro; %s</td>
  <td align="center" style="padding:8px 0;border-bottom:1px solid #f2f2f2;">x %d</td>
  <td align="right" style="padding:8px 0;border-bottom:1px solid #f2f2f2;white-space:nowrap;">&euro; %s</td>
</tr>
`, html.EscapeString(li.name), formatCents(li.unitCents), li.qty, formatCents(li.totalCents))
	}

	greeting := "Bedankt voor je bestelling!"
	if fullName != "" {
		greeting = fmt.Sprintf("Bedankt voor je bestelling, %s!", html.EscapeString(fullName))
	}

	var billingLines strings.Builder
	if fullName != "" {
		billingLines.WriteString(html.EscapeString(fullName) + "<br/>")
	}
	if company := md["bedrijfsnaam"]; company != "" {
		billingLines.WriteString("Bedrijfsnaam: " + html.EscapeString(company) + "<br/>")
	}
	billingLines.WriteString("E-mail: " + html.EscapeString(email) + "<br/>")
	if phone := md["telefoon"]; phone != "" {
		billingLines.WriteString("Telefoon: " + html.EscapeString(phone) + "<br/>")
	}
	billingLines.WriteString("Adres: " + html.EscapeString(joinAddress(billing)))
	if notes := md["bestelnotities"]; notes != "" {
		billingLines.WriteString(`<br/>Notities: <span style="white-space:pre-line;">` + html.EscapeString(notes) + "</span>")
	}

	var shippingBlock string
	if shipping == billing {
		shippingBlock = "Gelijk aan factuuradres"
	} else {
		var sb strings.Builder
		if fullName != "" {
			sb.WriteString(html.EscapeString(fullName) + "<br/>")
		}
		sb.WriteString("Adres: " + html.EscapeString(joinAddress(shipping)))
		shippingBlock = sb.String()
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="nl">
  <head>
    <meta charset="UTF-8" />
    <title>Bestelbevestiging - Old Maastricht</title>
  </head>
  <body style="margin:0;padding:0;background:#f5f1e8;">
    <table width="100%%" cellpadding="0" cellspacing="0" style="border-collapse:collapse;">
      <tr><td align="center" style="padding:16px 8px;">
        <table width="600" cellpadding="0" cellspacing="0" style="border-collapse:collapse;background:#ffffff;border-radius:8px;overflow:hidden;font-family:system-ui,sans-serif;color:#3a2a23;">
          <tr>
            <td style="padding:16px 20px;border-bottom:1px solid #f0e0b0;background:#fff7e0;">
              <table width="100%%" cellpadding="0" cellspacing="0" style="border-collapse:collapse;"><tr>
                <td align="left" style="vertical-align:middle;">
                  <img src="cid:%s" alt="Old Maastricht" style="max-height:48px;width:auto;display:block;" />
                </td>
                <td align="right" style="vertical-align:middle;font-size:13px;font-weight:600;color:#c28b00;">Bestelbevestiging</td>
              </tr></table>
            </td>
          </tr>
          <tr>
            <td style="padding:20px 24px 22px;">
              <h1 style="margin:0 0 4px;font-size:20px;color:#000;">%s</h1>
              <p style="margin:0 0 14px;font-size:13px;color:#555;line-height:1.5;">
                We hebben je bestelling ontvangen en gaan ermee aan de slag. Hier is een overzicht:
              </p>
              <table width="100%%" cellpadding="0" cellspacing="0" style="border-collapse:collapse;font-size:13px;margin-top:8px;">
                <thead><tr>
                  <th align="left" style="padding:8px 0;border-bottom:1px solid #e3e3e3;font-size:11px;color:#777;">PRODUCT</th>
                  <th align="right" style="padding:8px 0;border-bottom:1px solid #e3e3e3;font-size:11px;color:#777;">PRIJS</th>
                  <th align="center" style="padding:8px 0;border-bottom:1px solid #e3e3e3;font-size:11px;color:#777;">AANTAL</th>
                  <th align="right" style="padding:8px 0;border-bottom:1px solid #e3e3e3;font-size:11px;color:#777;">TOTAAL</th>
                </tr></thead>
                <tbody>
%s                </tbody>
                <tfoot><tr>
                  <td colspan="3" align="right" style="padding:10px 0 4px;font-weight:700;">Totaal</td>
                  <td align="right" style="padding:10px 0 4px;font-weight:700;white-space:nowrap;">&euro; %s</td>
                </tr></tfoot>
              </table>
              <table width="100%%" cellpadding="0" cellspacing="0" style="border-collapse:collapse;margin-top:18px;font-size:13px;"><tr>
                <td valign="top" style="width:50%%;padding-right:8px;">
                  <div style="font-weight:700;margin-bottom:4px;">Factuuradres</div>
                  <div>%s</div>
                </td>
                <td valign="top" style="width:50%%;padding-left:8px;">
                  <div style="font-weight:700;margin-bottom:4px;">Verzendadres</div>
                  <div>%s</div>
                </td>
              </tr></table>
              <p style="margin-top:18px;font-size:12px;color:#666;line-height:1.5;">
                Vragen? Reageer op deze e-mail of bel ons. Bedankt dat je voor Kaashandel Old Maastricht hebt gekozen!
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding:10px 16px 14px;border-top:1px solid #f0e0b0;background:#fff7e0;font-size:11px;color:#7b6c5e;text-align:center;">
              &copy; %d Kaashandel Old Maastricht &mdash; Alle rechten voorbehouden
            </td>
          </tr>
        </table>
      </td></tr>
    </table>
  </body>
</html>`,
		logoCID, greeting, rows.String(), formatCents(totalCents),
		billingLines.String(), shippingBlock, time.Now().Year())
}

// formatCents renders minor units as a Dutch euro amount, e.g. 1250 → "12,50".
func formatCents(cents int64) string {
	neg := ""
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d", neg, cents/100, cents%100)
}

func joinAddress(a address) string {
	cityLine := strings.TrimSpace(a.postalCode + " " + a.city)
	return strings.Join(nonEmpty(a.street, cityLine, a.country), ", ")
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
