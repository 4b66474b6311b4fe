// Package glicko implements the single-game Glicko-2 variant used for
// badminton ratings. Arithmetic stays on the familiar 1500 scale and
// every game is evaluated from the default uncertainty, so one game is
// one rating period.
package glicko

import (
	"fmt"
	"math"
)

const (
	// DefaultRD is the deviation every game starts from, it is not
	// carried between games.
	DefaultRD = 350

	// DefaultVolatility is the volatility every game starts from.
	DefaultVolatility = 0.06

	// Tau constrains how fast the volatility may move.
	Tau = 0.5

	tolerance = 1e-6
)

var TeamSizeErr = fmt.Errorf("team size must be 1 or 2")

// Result is one opponent outcome. Score is 1 for a win, 0 for a loss and
// 0.5 for a draw.
type Result struct {
	OpponentRating float64
	OpponentRD     float64
	Score          float64
}

func g(rd float64) float64 {
	return 1 / math.Sqrt(1+(3*rd*rd)/(math.Pi*math.Pi))
}

func expected(rating, oppRating, oppRD float64) float64 {
	return 1 / (1 + math.Exp(-g(oppRD)*(rating-oppRating)/400))
}

// Update applies one game to a rating and returns the new rating,
// deviation and volatility. Degenerate inputs where every outcome was
// fully expected leave the rating untouched.
func Update(rating, rd int, vol float64, results []Result) (int, int, float64) {
	if len(results) == 0 {
		return rating, rd, vol
	}

	r := float64(rating)
	d := float64(rd)

	var v float64
	for _, res := range results {
		gv := g(res.OpponentRD)
		e := expected(r, res.OpponentRating, res.OpponentRD)
		v += gv * gv * e * (1 - e)
	}

	if v == 0 {
		return rating, rd, vol
	}

	v = 1 / v

	var delta float64
	for _, res := range results {
		gv := g(res.OpponentRD)
		e := expected(r, res.OpponentRating, res.OpponentRD)
		delta += gv * (res.Score - e)
	}
	delta *= v

	newVol := convergeVolatility(d, vol, delta, v)
	newRD := math.Sqrt(d*d + newVol*newVol)
	newRating := r + newRD*newRD*delta

	return int(newRating), int(newRD), newVol
}

// convergeVolatility runs the Illinois variant of regula falsi from the
// Glicko-2 paper.
func convergeVolatility(rd, vol, delta, v float64) float64 {
	a := math.Log(vol * vol)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - rd*rd - v - ex)
		den := 2 * (rd*rd + v + ex) * (rd*rd + v + ex)
		return num/den - (x-a)/(Tau*Tau)
	}

	A := a
	var B float64
	if delta*delta > rd*rd+v {
		B = math.Log(delta*delta - rd*rd - v)
	} else {
		k := 1
		for f(a-float64(k)*Tau) < 0 && k < 1e6 {
			k++
		}
		B = a - float64(k)*Tau
	}

	fA, fB := f(A), f(B)
	for i := 0; i < 100 && math.Abs(B-A) > tolerance; i++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if fC*fB < 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}

	return math.Exp(A / 2)
}

// TeamRating reduces a team to the single opponent rating a match update
// plays against: a pair gets a 5% synergy bonus on top of its average, a
// lone player plays at their own rating.
func TeamRating(ratings []int) (int, error) {
	switch len(ratings) {
	case 1:
		return ratings[0], nil
	case 2:
		avg := float64(ratings[0]+ratings[1]) / 2
		return int(avg + avg*0.05), nil
	default:
		return 0, fmt.Errorf("%w: got %d", TeamSizeErr, len(ratings))
	}
}
