package cosmo

import (
	"context"
	"fmt"
)

// ExampleEqualityPoints lists the equality epochs of a flat ΛCDM model.
func ExampleEqualityPoints() {
	m := NewModel("lcdm", 8.4e-5, 0.3, 0.699916)
	for _, eq := range EqualityPoints(m) {
		fmt.Printf("%s-%s: a = %.4g\n", eq.First, eq.Second, eq.A)
	}
	// Output:
	// radiation-matter: a = 0.00028
	// radiation-dark energy: a = 0.1047
	// matter-dark energy: a = 0.754
}

// ExampleIntegrate solves the Einstein-de Sitter universe, whose age is two
// thirds of a Hubble time.
func ExampleIntegrate() {
	sol, err := Integrate(context.Background(), NewModel("eds", 0, 1, 0), DefaultOptions(), nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("age = %.3f Hubble times (%.2f Gyr)\n", sol.Age, sol.AgeGyr())
	// Output:
	// age = 0.667 Hubble times (9.31 Gyr)
}
