/*
Package domain contains the core domain models of the Lectern navigation engine.

It defines the values exchanged between the navigation core and its hosts: grid
positions, route availability, the rendered frame and the deck of slides being
presented. This package is kept pure and free of external dependencies like I/O
or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Position: A (row, column) coordinate in the slide grid.
  - Routes: Which of the four directions lead somewhere from a position.
  - Frame: The visual state a surface must reflect (visibility classes, fragment flags, controls).
  - Deck: An ordered set of slides, some of which hold nested slides.
  - Record: The durable location of a presentation session.
*/
package domain
