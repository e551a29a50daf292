/*
Package mask derives validity ("no data") masks for image views without
allocating a mask buffer.

Pointwise transforms map every pixel independently:

	CreateMaskView   marks pixels equal to a no-data value invalid
	ApplyMaskView    replaces invalid pixels with a fill value
	CopyMaskView     takes validity from the transparency of a second view
	MaskToAlphaView  turns validity into an alpha channel

These are cheap and stateless, so their views are declared multiply accessible
and never cache results.

EdgeMask finds no-data pixels that extend inward from the edges of an image, e.g.,
the zero-filled canvas around a rotated satellite frame.  Its work happens at
construction: a row pass and a column pass record, for each row and column, how far
zero-valued pixels reach in from either end.  A pixel is then valid if it lies strictly
inside all four of those limits, an O(1) test.  The intersection of per-line extents
is exact only when the data region is star-shaped along rows and columns; no-data
regions with concave bays are partly reported as valid.  The Flood strategy trades
O(rows*cols) memory for an exact connected-component answer.
*/
package mask
