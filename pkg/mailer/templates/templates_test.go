package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(opts ...Option) EmailData {
	base := []Option{
		WithLoan(7, 3, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC), true),
		WithBookTitle("Dune"),
		WithOccurredAt(time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)),
	}
	return NewLoanEmailData("City Library", "Ada", "ada@example.com", append(base, opts...)...)
}

func TestRender_LoanIssued(t *testing.T) {
	subject, text, html, err := Render(LoanIssued, sample())
	require.NoError(t, err)

	assert.Equal(t, "[City Library] Loan #7: Dune is due 09 January 2024", subject)
	assert.Contains(t, text, "Hello Ada,")
	assert.Contains(t, text, "copy #3) on 01 January 2024")
	assert.Contains(t, html, "<strong>Dune</strong>")
}

func TestRender_Returned(t *testing.T) {
	subject, text, _, err := Render(LoanReturned, sample())
	require.NoError(t, err)

	assert.Equal(t, "[City Library] Loan #7 closed: Dune", subject)
	assert.Contains(t, text, "closed on 05 January 2024")
}

func TestRender_StatusToggled(t *testing.T) {
	subject, text, _, err := Render(LoanStatusToggled, sample())
	require.NoError(t, err)
	assert.Equal(t, "[City Library] Loan #7 is now active", subject)
	assert.Contains(t, text, "due back on 09 January 2024")

	inactive := sample(func(d *EmailData) { d.Active = false })
	subject, text, _, err = Render(LoanStatusToggled, inactive)
	require.NoError(t, err)
	assert.Equal(t, "[City Library] Loan #7 is now inactive", subject)
	assert.NotContains(t, text, "due back")
}

func TestRender_FallbacksAndEscaping(t *testing.T) {
	d := NewLoanEmailData("", "", "x@example.com", WithBookTitle("  "), WithLoan(1, 1, time.Now(), time.Now(), true))
	subject, text, _, err := Render(LoanIssued, d)
	require.NoError(t, err)
	assert.Contains(t, subject, "[Library]")
	assert.Contains(t, subject, "your book")
	assert.Contains(t, text, "Hello reader,")

	_, _, html, err := Render(LoanIssued, sample(WithBookTitle("<b>Dune</b>")))
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;b&gt;Dune&lt;/b&gt;")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", sample())
	assert.Error(t, err)
}
