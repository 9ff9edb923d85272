package patrol_test

import (
	"context"
	"fmt"

	"github.com/aretw0/patrol"
)

func Example() {
	eng, err := patrol.New(patrol.WithWorkers(2))
	if err != nil {
		panic(err)
	}

	sc, err := eng.Parse([]byte(sample))
	if err != nil {
		panic(err)
	}

	tr, err := eng.Trace(context.Background(), sc)
	if err != nil {
		panic(err)
	}
	fmt.Println(tr.Outcome, tr.VisitedCount())

	res, err := eng.Search(context.Background(), sc)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Loops)

	// Output:
	// exit 41
	// [(3,6) (6,7) (7,7) (1,8) (3,8) (7,9)]
}
