package mail

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// MagicLinkHTML renders the magic-link login email.
func MagicLinkHTML(link string, ttl time.Duration) string {
	return fmt.Sprintf(`<h1>Sign in to Hood Car Rentals</h1>
<p>Click the link below to sign in. It can be used once and expires in %d minutes.</p>
<p><a href="%s">Sign in</a></p>
<p>If you didn't request this email, you can safely ignore it.</p>
<p>Thank you,<br>Hood Car Rentals</p>`, int(ttl.Minutes()), html.EscapeString(link))
}

// OTPHTML renders the one-time passcode email.
func OTPHTML(code string, ttl time.Duration) string {
	return fmt.Sprintf(`<h1>Your login code</h1>
<p>Your Hood Car Rentals login code is:</p>
<h2>%s</h2>
<p>It expires in %d minutes.</p>
<p>If you didn't request this email, you can safely ignore it.</p>`, html.EscapeString(code), int(ttl.Minutes()))
}

// QuoteDetails carries everything the booking quote email shows.
type QuoteDetails struct {
	Username    string
	Email       string
	CarTitle    string
	PricePerDay string
	Region      string
	City        string
	Area        string
	StartDate   time.Time
	EndDate     time.Time
	NumDays     int
	TotalAmount string
}

// QuoteHTML renders the booking quote email.
func QuoteHTML(d QuoteDetails) string {
	name := d.Username
	if name == "" {
		name = "Valued Customer"
	}
	return fmt.Sprintf(`<h1>Your Car Rental Quote</h1>
<p>Hello %s,</p>
<p>Thank you for your interest! Here is the quote for your requested booking:</p>
<h2>Car Details</h2>
<ul>
  <li><strong>Car:</strong> %s</li>
  <li><strong>Price per day:</strong> %s</li>
</ul>
<h2>Booking Preferences</h2>
<ul>
  <li><strong>Region:</strong> %s</li>
  <li><strong>City:</strong> %s</li>
  <li><strong>Area:</strong> %s</li>
  <li><strong>Start Date:</strong> %s</li>
  <li><strong>End Date:</strong> %s</li>
  <li><strong>Number of Days:</strong> %d</li>
</ul>
<h2>User Details (for admin)</h2>
<ul>
  <li><strong>Email:</strong> %s</li>
</ul>
<h2>Total Estimated Cost: GH&cent;%s</h2>
<p>Thank you,<br>Hood Car Rentals</p>`,
		html.EscapeString(name),
		html.EscapeString(d.CarTitle),
		html.EscapeString(d.PricePerDay),
		html.EscapeString(d.Region),
		html.EscapeString(d.City),
		html.EscapeString(d.Area),
		d.StartDate.Format("02/01/2006"),
		d.EndDate.Format("02/01/2006"),
		d.NumDays,
		html.EscapeString(d.Email),
		html.EscapeString(d.TotalAmount))
}

// ConfirmationHTML renders the payment confirmation receipt.
func ConfirmationHTML(firstName, reference, amountPaid, customerEmail string) string {
	if firstName == "" {
		firstName = "Valued Customer"
	}
	return fmt.Sprintf(`<h1>Booking Confirmed!</h1>
<p>Thank you, %s! Your payment has been received and your booking is confirmed.</p>
<h2>Receipt Details:</h2>
<ul>
  <li><strong>Reference:</strong> %s</li>
  <li><strong>Amount Paid:</strong> GHS %s</li>
  <li><strong>Customer Email:</strong> %s</li>
</ul>
<p>We will be in touch shortly with the final details of your car rental.</p>`,
		html.EscapeString(firstName),
		html.EscapeString(reference),
		html.EscapeString(amountPaid),
		html.EscapeString(customerEmail))
}

// SupportHTML renders a support-form relay email.
func SupportHTML(name, email, message string) string {
	body := strings.ReplaceAll(html.EscapeString(message), "\n", "<br>")
	return fmt.Sprintf(`<h1>New Support Message</h1>
<p>You have received a new message from your website's support form.</p>
<h2>Sender Details:</h2>
<ul>
  <li><strong>Name:</strong> %s</li>
  <li><strong>Email:</strong> %s</li>
</ul>
<h2>Message:</h2>
<p>%s</p>`, html.EscapeString(name), html.EscapeString(email), body)
}

// TestHTML renders the diagnostic email body.
func TestHTML() string {
	return "<b>If you received this, your Resend configuration is working!</b>"
}
