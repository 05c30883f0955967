package seeders

import (
	"context"
	"fmt"
	"io"

	"github.com/shashiranjanraj/dinehub/app/services"
	"github.com/shashiranjanraj/dinehub/internal/kernel"
)

func init() {
	RegisterDemo("menu", SeedMenu)
}

var demoMenu = []services.MenuInput{
	{Name: "Garlic Bread", Description: "Toasted sourdough, garlic butter", Price: 4.5, Category: "Appetizer"},
	{Name: "Tomato Soup", Description: "Roasted tomato, basil oil", Price: 5.25, Category: "Appetizer"},
	{Name: "Mushroom Risotto", Description: "Arborio, porcini, parmesan", Price: 14, Category: "Main Course"},
	{Name: "Grilled Salmon", Description: "Lemon butter, seasonal greens", Price: 18.5, Category: "Main Course"},
	{Name: "Classic Burger", Description: "Beef patty, cheddar, pickles", Price: 12, Category: "Burgers"},
	{Name: "Veggie Burger", Description: "Black bean patty, avocado", Price: 11.5, Category: "Burgers"},
	{Name: "Chocolate Fondant", Description: "Molten centre, vanilla ice cream", Price: 7, Category: "Dessert"},
	{Name: "Lemonade", Description: "Fresh squeezed", Price: 3, Category: "Beverage"},
}

// SeedMenu adds the sample dishes to an empty catalog.
func SeedMenu(ctx context.Context, k *kernel.Kernel, out io.Writer) error {
	existing, err := k.Menu.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Fprintf(out, "skipped (%d items present) ", len(existing))
		return nil
	}

	for _, in := range demoMenu {
		if _, err := k.Menu.Create(ctx, in); err != nil {
			return fmt.Errorf("%s: %w", in.Name, err)
		}
	}
	fmt.Fprintf(out, "%d items ", len(demoMenu))
	return nil
}
