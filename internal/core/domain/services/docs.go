// Package services holds domain logic that spans more than one aggregate:
//   - OrderPlacer builds an order from requested lines and the menu;
//   - OrderNumberSequence allocates human-readable order numbers.
package services
