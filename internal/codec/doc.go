// Package codec implements the on-device transformations behind every queue:
// raster conversion and resizing, image recompression, the small set of text
// document conversions that can be done without a layout engine, document
// byte-budget compression, dimension probing, and preview thumbnails.
//
// Functions here are pure with respect to the queues. They take bytes and a
// request, and return bytes or an error; the workflow package decides what a
// failure means for a job.
package codec
