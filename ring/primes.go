package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// IsPrime applies the Baillie-PSW primality test, which is 100% accurate for numbers below 2^64.
func IsPrime(x uint64) bool {
	return new(big.Int).SetUint64(x).ProbablyPrime(0)
}

// GenerateNTTPrimes generates n NthRoot NTT-friendly primes given logQ = size of the primes.
// Primes are alternately picked above and below 2^logQ, as close as possible to that power of two.
func GenerateNTTPrimes(logQ, NthRoot, n int) (primes []uint64, err error) {

	if logQ > MaxModulusBitSize || logQ < 2 {
		return nil, fmt.Errorf("invalid logQ: must be between 2 and %d", MaxModulusBitSize)
	}

	var nextPrime, previousPrime, Qpow2 uint64
	var checkForNextPrime, checkForPreviousPrime bool

	primes = []uint64{}

	Qpow2 = uint64(1 << logQ)

	nextPrime = Qpow2 + 1
	previousPrime = Qpow2 + 1

	checkForNextPrime = true
	checkForPreviousPrime = true

	for {

		if !(checkForNextPrime || checkForPreviousPrime) {
			return nil, fmt.Errorf("cannot GenerateNTTPrimes: not enough primes for logQ=%d and NthRoot=%d", logQ, NthRoot)
		}

		if checkForNextPrime {

			if nextPrime > 0xffffffffffffffff-uint64(NthRoot) || bits.Len64(nextPrime+uint64(NthRoot)) > MaxModulusBitSize {

				checkForNextPrime = false

			} else {

				nextPrime += uint64(NthRoot)

				if IsPrime(nextPrime) {

					primes = append(primes, nextPrime)

					if len(primes) == n {
						return
					}
				}
			}
		}

		if checkForPreviousPrime {

			if previousPrime < uint64(NthRoot) {

				checkForPreviousPrime = false

			} else {

				previousPrime -= uint64(NthRoot)

				if IsPrime(previousPrime) {

					primes = append(primes, previousPrime)

					if len(primes) == n {
						return
					}
				}
			}
		}
	}
}

// NextNTTPrime returns the next NthRoot NTT prime after q.
// The input q must be itself an NTT prime for the given NthRoot.
func NextNTTPrime(q uint64, NthRoot int) (qNext uint64, err error) {

	qNext = q + uint64(NthRoot)

	for !IsPrime(qNext) {

		qNext += uint64(NthRoot)

		if bits.Len64(qNext) > MaxModulusBitSize {
			return 0, fmt.Errorf("next NTT prime exceeds the maximum bit-size of %d bits", MaxModulusBitSize)
		}
	}

	return qNext, nil
}

// PreviousNTTPrime returns the previous NthRoot NTT prime before q.
// The input q must be itself an NTT prime for the given NthRoot.
func PreviousNTTPrime(q uint64, NthRoot int) (qPrev uint64, err error) {

	if q < uint64(NthRoot) {
		return 0, fmt.Errorf("previous NTT prime is smaller than NthRoot")
	}

	qPrev = q - uint64(NthRoot)

	for !IsPrime(qPrev) {

		if qPrev < uint64(NthRoot) {
			return 0, fmt.Errorf("previous NTT prime is smaller than NthRoot")
		}

		qPrev -= uint64(NthRoot)
	}

	return qPrev, nil
}
