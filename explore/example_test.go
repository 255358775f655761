package explore

import (
	"context"
	"fmt"

	"github.com/Comcast/soup/core"
)

// ExampleProduct finds the classic mutual exclusion violation.
func ExampleProduct() {
	model, err := core.AliceBob0()
	if err != nil {
		panic(err)
	}
	property, err := core.Exclusion(model)
	if err != nil {
		panic(err)
	}
	accept, err := PropertyProposition(core.PropertyAccept)
	if err != nil {
		panic(err)
	}

	r, err := Product(context.Background(), model, property, nil, nil, accept)
	if err != nil {
		panic(err)
	}
	for _, s := range r.Counterexample {
		fmt.Println(s)
	}
	fmt.Println(r.Verdict())

	// Output:
	// {"a":0,"b":0} --a1--> {"a":1,"b":0} property {"status":true}
	// {"a":1,"b":0} --a2--> {"a":2,"b":0} property {"status":true}
	// {"a":2,"b":0} --b1--> {"a":2,"b":1} property {"status":true}
	// {"a":2,"b":1} --b2--> {"a":2,"b":2} property {"status":false}
	// violated (accept)
}
