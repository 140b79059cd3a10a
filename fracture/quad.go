package fracture

// A quad is formed by two triangles t1 and t2 sharing the edge q1-q2.
//
//	           q3
//	  *---------*---------*
//	   \       / \       /
//	    \ t2L /   \ t2R /
//	     \   /     \   /
//	      \ /   t2  \ /
//	    q1 *---------* q2
//	      / \   t1  / \
//	     /   \     /   \
//	    / t1L \   / t1R \
//	   /       \ /       \
//	  *---------*---------*
//	           q4
type quad struct {
	q1, q2, q3, q4     int
	t1, t2             int
	t1L, t1R, t2L, t2R int
}
