package app

// DefaultLogLimit bounds the game log kept by a controller.
const DefaultLogLimit = 256
