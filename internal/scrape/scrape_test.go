package scrape_test

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"ikhor/internal/scrape"
)

const listingHTML = `
<html><body>
<ul>
  <li class="item flex flex-col">
    <a class="product-item-photo" title="Lattafa Khamrah EDP 3.4 oz" href="/lattafa-khamrah-edp">
      <img src="/media/catalog/khamrah.jpg" alt="">
    </a>
    <div class="price">
      <span class="old-price">$45.00</span>
      <span class="special-price">$27.99</span>
    </div>
  </li>
  <li class="item flex flex-col">
    <a class="product-item-photo" title="Versace Eros EDT 3.4 oz" href="https://www.giftexpress.com/versace-eros">
      <img src="https://cdn.giftexpress.com/eros.jpg" alt="">
    </a>
    <div class="price"><span>$52.49</span></div>
  </li>
  <li class="item flex flex-col">
    <a class="product-item-photo" title="Sin precio" href="/sin-precio"></a>
  </li>
  <li class="unrelated">
    <a class="product-item-photo" title="Fuera del grid" href="/x"></a>
    <span class="price">$9.99</span>
  </li>
</ul>
</body></html>`

func parse(t *testing.T, src string) []scrape.Item {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return scrape.ParseGiftExpress(root)
}

func TestParseGiftExpressListing(t *testing.T) {
	items := parse(t, listingHTML)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}

	k := items[0]
	if k.Name != "Lattafa Khamrah EDP 3.4 oz" {
		t.Fatalf("name: %q", k.Name)
	}
	if k.Link != "/lattafa-khamrah-edp" {
		t.Fatalf("link: %q", k.Link)
	}
	// discounted price wins over the strike-through original
	if k.PriceCents != 2799 {
		t.Fatalf("price: %d", k.PriceCents)
	}
	// relative image src gets the site prefix
	if k.ImageURL != "https://www.giftexpress.com/media/catalog/khamrah.jpg" {
		t.Fatalf("image: %q", k.ImageURL)
	}
	if k.Brand != "GiftExpress" {
		t.Fatalf("brand: %q", k.Brand)
	}

	e := items[1]
	if e.PriceCents != 5249 {
		t.Fatalf("eros price: %d", e.PriceCents)
	}
	if e.ImageURL != "https://cdn.giftexpress.com/eros.jpg" {
		t.Fatalf("absolute image rewritten: %q", e.ImageURL)
	}
}

func TestParseGiftExpressEmptyPage(t *testing.T) {
	items := parse(t, `<html><body><p>mantenimiento</p></body></html>`)
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}
