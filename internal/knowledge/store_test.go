package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepco-agent/backend/internal/language"
)

const testDocument = `{
	"english": {
		"billing": {
			"payment_methods": "Pay via bank transfer, eFAWATEERcom, or at any JEPCO office.",
			"billing_cycle": "Bills are issued monthly and due within 30 days."
		},
		"contact": {
			"hotline": "Emergency hotline 116 is available around the clock."
		},
		"faq": [
			{"question": "How do I report an outage?", "answer": "Call 116 or use the JEPCO website outage form."}
		]
	},
	"arabic": {
		"billing": {
			"payment_methods": "يمكن دفع الفاتورة عبر التحويل البنكي أو اي فواتيركم أو في مكاتب جيبكو."
		}
	},
	"extraction_metadata": {
		"scraped_at": "2024-01-01"
	}
}`

func writeTestDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jepco_content.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLookupBillingQuery(t *testing.T) {
	store := NewStore(writeTestDocument(t, testDocument))
	defer store.Close()

	result := store.Lookup("how do I pay my bill", language.English)
	assert.Contains(t, result, "[Billing]")
	assert.Contains(t, result, "bank transfer")
}

func TestLookupArabicFallsBackAcrossLanguages(t *testing.T) {
	store := NewStore(writeTestDocument(t, testDocument))
	defer store.Close()

	// The Arabic section carries billing content of its own.
	result := store.Lookup("فاتورة", language.Arabic)
	assert.Contains(t, result, "[Billing]")
	assert.Contains(t, result, "جيبكو")
}

func TestLookupDeterministicUnderEntryCap(t *testing.T) {
	// More matching categories than the 3-entry cap admits, so ordering
	// decides which entries survive.
	doc := `{
		"english": {
			"billing": {
				"payment_methods": "Pay via bank transfer or eFAWATEERcom.",
				"billing_cycle": "Bills are issued monthly."
			},
			"contact": {"hotline": "Hotline 116 is available around the clock."},
			"emergency": {"outages": "Report outages on the hotline immediately."}
		}
	}`
	store := NewStore(writeTestDocument(t, doc))
	defer store.Close()

	first := store.Lookup("pay my bill phone emergency", language.English)
	require.NotEmpty(t, first)
	assert.Contains(t, first, "[Billing]")
	for i := 0; i < 200; i++ {
		assert.Equal(t, first, store.Lookup("pay my bill phone emergency", language.English))
	}

	// No keyword hit scans every category; that path must be stable too.
	general := store.Lookup("zzz", language.English)
	for i := 0; i < 200; i++ {
		assert.Equal(t, general, store.Lookup("zzz", language.English))
	}
}

func TestLookupMissingFileDegradesToEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	defer store.Close()

	assert.True(t, store.Empty())
	assert.Equal(t, "", store.Lookup("bill", language.English))
	assert.Equal(t, "", store.DeepSearch("bill", language.English))
}

func TestLookupCorruptFileDegradesToEmpty(t *testing.T) {
	store := NewStore(writeTestDocument(t, "{not json"))
	defer store.Close()

	assert.True(t, store.Empty())
	assert.Equal(t, "", store.Lookup("bill", language.English))
}

func TestExtractionMetadataStripped(t *testing.T) {
	store := NewStore(writeTestDocument(t, testDocument))
	defer store.Close()

	result := store.DeepSearch("scraped", language.English)
	assert.NotContains(t, result, "2024-01-01")
}

func TestDeepSearchMatchesNestedEntries(t *testing.T) {
	store := NewStore(writeTestDocument(t, testDocument))
	defer store.Close()

	result := store.DeepSearch("outage", language.English)
	assert.Contains(t, result, "Frequently Asked Questions")
	assert.Contains(t, result, "116")
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeTestDocument(t, testDocument)
	store := NewStore(path)
	defer store.Close()

	require.NoError(t, store.Watch(path))

	updated := `{"english": {"billing": {"payment_methods": "New payment portal at pay.jepco.com.jo"}}}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		return strings.Contains(store.Lookup("payment", language.English), "pay.jepco.com.jo")
	}, 3*time.Second, 50*time.Millisecond)
}
