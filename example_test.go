package flatcol_test

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/flatcol/flatcol"
)

type Employee struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (e Employee) Key() string { return e.ID }

func (e Employee) CheckAgainst(candidate Employee) error {
	if e.Email == candidate.Email {
		return errors.New("email is already in use")
	}
	return nil
}

// Example demonstrates the basic insert / lookup / update cycle.
func Example() {
	dir, err := os.MkdirTemp("", "flatcol-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	col, err := flatcol.Open[Employee](filepath.Join(dir, "employees.col"))
	if err != nil {
		log.Fatal(err)
	}
	defer col.Close()

	if err := col.Insert(Employee{ID: "e-1", Email: "ada@example.com", Name: "Ada"}); err != nil {
		log.Fatal(err)
	}

	ada, _ := col.ByKey("e-1")
	fmt.Println(ada.Name)

	ada.Name = "Ada L."
	if err := col.Update(ada); err != nil {
		log.Fatal(err)
	}

	updated, _ := col.ByKey("e-1")
	fmt.Println(updated.Name)
	// Output:
	// Ada
	// Ada L.
}

// Example_constraints demonstrates cross-document uniqueness enforcement.
func Example_constraints() {
	dir, err := os.MkdirTemp("", "flatcol-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	col, err := flatcol.Open[Employee](filepath.Join(dir, "employees.col"))
	if err != nil {
		log.Fatal(err)
	}
	defer col.Close()

	if err := col.Insert(Employee{ID: "e-1", Email: "ada@example.com", Name: "Ada"}); err != nil {
		log.Fatal(err)
	}

	err = col.Insert(Employee{ID: "e-2", Email: "ada@example.com", Name: "Impostor"})

	var cerr *flatcol.ConstraintError
	if errors.As(err, &cerr) {
		fmt.Println("rejected: clashes with", cerr.Existing)
	}
	// Output: rejected: clashes with e-1
}

// Example_shared demonstrates concurrent access through the Shared wrapper.
func Example_shared() {
	dir, err := os.MkdirTemp("", "flatcol-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	shared, err := flatcol.OpenShared[Employee](filepath.Join(dir, "employees.col"))
	if err != nil {
		log.Fatal(err)
	}
	defer shared.Close()

	err = shared.Update(func(col *flatcol.Collection[Employee]) error {
		return col.Insert(Employee{ID: "e-1", Email: "ada@example.com", Name: "Ada"})
	})
	if err != nil {
		log.Fatal(err)
	}

	_ = shared.View(func(col *flatcol.Collection[Employee]) error {
		fmt.Println(col.Count())
		return nil
	})
	// Output: 1
}
