package bitmap

func Set(u []uint32, id int) bool {
	k, b := id/32, uint32(1)<<uint32(id&31)
	v := u[k]
	if v&b == 0 {
		u[k] = v | b
		return true
	}
	return false
}

func Unset(u []uint32, id int) bool {
	k, b := id/32, uint32(1)<<uint32(id&31)
	v := u[k]
	if v&b != 0 {
		u[k] = v ^ b
		return true
	}
	return false
}

func Has(u []uint32, id int) bool {
	k, b := id/32, uint32(1)<<uint32(id&31)
	return u[k]&b != 0
}
