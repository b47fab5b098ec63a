package cart

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"charityfinds/internal/models"
)

type cartTestContext struct {
	cart Cart
	err  error
}

func (c *cartTestContext) reset() {
	c.cart = New()
	c.err = nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.reset()
	return nil
}

func (c *cartTestContext) iAddPriced(id, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.cart = c.cart.AddOrIncrement(models.Product{ID: id, Title: "listing " + id, Price: p, OriginalPrice: p})
	return nil
}

func (c *cartTestContext) iRemove(id string) error {
	next, err := c.cart.Remove(id)
	c.cart, c.err = next, err
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.cart = c.cart.Clear()
	return nil
}

func (c *cartTestContext) theCartLinesAre(list string) error {
	var got []string
	for _, e := range c.cart.Entries() {
		got = append(got, e.Product.ID)
	}
	if strings.Join(got, ",") != list {
		return fmt.Errorf("expected lines %s, got %s", list, strings.Join(got, ","))
	}
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if c.cart.ItemCount() != n {
		return fmt.Errorf("expected %d lines, got %d", n, c.cart.ItemCount())
	}
	return nil
}

func (c *cartTestContext) theCartHoldsUnits(n int) error {
	if c.cart.Units() != n {
		return fmt.Errorf("expected %d units, got %d", n, c.cart.Units())
	}
	return nil
}

func (c *cartTestContext) lineHasQuantity(id string, qty int) error {
	e, ok := c.cart.Get(id)
	if !ok {
		return fmt.Errorf("line %s not in cart", id)
	}
	if e.Quantity != qty {
		return fmt.Errorf("expected quantity %d for %s, got %d", qty, id, e.Quantity)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(total string) error {
	if c.cart.TotalDisplay() != total {
		return fmt.Errorf("expected total %s, got %s", total, c.cart.TotalDisplay())
	}
	return nil
}

func (c *cartTestContext) theOperationFailsWith(msg string) error {
	if c.err == nil {
		return fmt.Errorf("expected an error containing %q", msg)
	}
	if !strings.Contains(c.err.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %q", msg, c.err.Error())
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	// When
	ctx.Step(`^I add "([^"]*)" priced (\d+\.\d+)$`, tc.iAddPriced)
	ctx.Step(`^I remove "([^"]*)"$`, tc.iRemove)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)

	// Then
	ctx.Step(`^the cart lines are "([^"]*)"$`, tc.theCartLinesAre)
	ctx.Step(`^the cart has (\d+) lines$`, tc.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) units$`, tc.theCartHoldsUnits)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
