/*
Package dsl provides a Go DSL for building Lectern decks in code.

It is an alternative to a directory of Markdown files, useful for generated
decks, unit tests and embedding a presentation in another program.

Example usage:

	src, err := dsl.New("Quarterly Review").
		Add("intro").Title("Welcome").Text("# Welcome").
		Add("numbers").Title("Numbers").Fragments("revenue", "costs").
		Add("details").
		Nest("eu").Title("Europe").
		Nest("us").Title("Americas").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	engine, err := lectern.New("", lectern.WithLoader(src))
*/
package dsl
