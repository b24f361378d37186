package engine

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/weftline/weft/internal/rule"
)

// assertGolden rewrites the input with the set and compares the full
// output document against a golden file.
//
// To regenerate golden files, run:
//
//	go test ./internal/engine -update
func assertGolden(t *testing.T, name string, in []string, set *rule.Set) {
	t.Helper()

	res, err := Rewrite(in, set)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(strings.Join(res.Lines, "\n")+"\n"))
}

func TestGolden_MarketplaceCards(t *testing.T) {
	set := makeSet(
		replaceRule("golden-apples-card",
			`addToCart('Golden Apples', 0.45, 'Farruh M.')`,
			`        <div class="market-flag market-flag--delivery"><i class="fa-solid fa-truck-fast"></i>`,
			`            Seller offers delivery</div>`,
			`        <button class="market-card-btn" onclick="addToCart('Golden Apples', 0.45, 'Farruh M.', '+998901234567', true)">Add to Cart</button>`,
		),
		replaceRule("navot-melons-card",
			`addToCart('Navot Melons', 0.80, 'Ali N.')`,
			`        <div class="market-flag market-flag--driver"><i class="fa-solid fa-user-clock"></i>`,
			`            Requires driver assignment</div>`,
			`        <button class="market-card-btn" onclick="addToCart('Navot Melons', 0.80, 'Ali N.', '+998939876543', false)">Add to Cart</button>`,
		),
	)

	in := []string{
		`<section class="market-grid">`,
		`    <div class="market-card">`,
		`        <h3>Golden Apples</h3>`,
		`        <button class="market-card-btn" onclick="addToCart('Golden Apples', 0.45, 'Farruh M.')">Add to Cart</button>`,
		`    </div>`,
		`    <div class="market-card">`,
		`        <h3>Navot Melons</h3>`,
		`        <button class="market-card-btn" onclick="addToCart('Navot Melons', 0.80, 'Ali N.')">Add to Cart</button>`,
		`    </div>`,
		`</section>`,
	}

	assertGolden(t, "marketplace_cards", in, set)
}

func TestGolden_TransportCheckbox(t *testing.T) {
	set := makeSet(
		insertRule("transport-checkbox",
			`<button type="submit"`,
			`    <div class="form-row form-row--transport">`,
			`        <input type="checkbox" id="harvest-transport" class="form-checkbox">`,
			`        <label for="harvest-transport" class="form-checkbox-label">`,
			`            I can transport this myself <span class="form-hint">(include transport fee)</span>`,
			`        </label>`,
			`    </div>`,
		),
	)

	in := []string{
		`<form id="harvest-form">`,
		`    <div class="form-row">`,
		`        <input type="number" id="harvest-price" placeholder="e.g. 4500">`,
		`    </div>`,
		`    <button type="submit" class="btn-primary">`,
		`        Add to Inventory`,
		`    </button>`,
		`    <button type="submit" class="btn-secondary">`,
		`        Save Draft`,
		`    </button>`,
		`</form>`,
	}

	assertGolden(t, "transport_checkbox", in, set)
}
