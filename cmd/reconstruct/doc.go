// Command reconstruct runs a synthetic end-to-end phase retrieval.
//
// It builds a random ground-truth density on a disk-shaped support, keeps only
// the magnitudes of its Fourier transform (the information a diffraction
// detector records), and reconstructs the density from those magnitudes alone
// with HIO cycles, shrink-wrap support refinement and a final ER polish.
//
// Usage:
//
//	reconstruct [-size 64] [-cycles 10] [-hio 20] [-er 40] [-beta 0.9]
//	            [-cutoff 0.04] [-sigma 1] [-seed 1] [-device auto] [-out reconstruction]
//
// The reconstructed magnitude is written as <out>.png and as <out>.f16, a raw
// little-endian IEEE half-float dump.
package main
