// seehuhn.de/go/tinyps - a tiny PostScript renderer
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tinyps

// makeSystemDict returns the table of built-in operators.
func makeSystemDict() map[Name]builtin {
	return map[Name]builtin{
		"abs":             bAbs,
		"add":             bAdd,
		"and":             bAnd,
		"arc":             bArc,
		"arcto":           bArcto,
		"array":           bArray,
		"atan":            bAtan,
		"begin":           bBegin,
		"bind":            bBind,
		"charpath":        bCharpath,
		"clear":           bClear,
		"clip":            bClip,
		"closepath":       bClosepath,
		"copy":            bCopy,
		"cos":             bCos,
		"count":           bCount,
		"currentalpha":    bCurrentalpha,
		"currentdict":     bCurrentdict,
		"currentgray":     bCurrentgray,
		"currentlinewidth":bCurrentlinewidth,
		"currentmatrix":   bCurrentmatrix,
		"currentpoint":    bCurrentpoint,
		"currentrgbcolor": bCurrentrgbcolor,
		"curveto":         bCurveto,
		"def":             bDef,
		"definefont":      bDefinefont,
		"dict":            bDict,
		"div":             bDiv,
		"dup":             bDup,
		"end":             bEnd,
		"eofill":          bEofill,
		"eq":              bEq,
		"exch":            bExch,
		"exec":            bExec,
		"exit":            bExit,
		"false":           bFalse,
		"fill":            bFill,
		"findfont":        bFindfont,
		"for":             bFor,
		"ge":              bGe,
		"get":             bGet,
		"getinterval":     bGetinterval,
		"grestore":        bGrestore,
		"gsave":           bGsave,
		"gt":              bGt,
		"idiv":            bIdiv,
		"if":              bIf,
		"ifelse":          bIfelse,
		"index":           bIndex,
		"initgraphics":    bInitgraphics,
		"itransform":      bItransform,
		"known":           bKnown,
		"le":              bLe,
		"length":          bLength,
		"lineto":          bLineto,
		"loop":            bLoop,
		"lt":              bLt,
		"max":             bMax,
		"min":             bMin,
		"mod":             bMod,
		"moveto":          bMoveto,
		"mul":             bMul,
		"ne":              bNe,
		"neg":             bNeg,
		"newpath":         bNewpath,
		"not":             bNot,
		"or":              bOr,
		"pop":             bPop,
		"put":             bPut,
		"putinterval":     bPutinterval,
		"qcurveto":        bQcurveto,
		"rand":            bRand,
		"rcurveto":        bRcurveto,
		"readonly":        bReadonly,
		"repeat":          bRepeat,
		"rlineto":         bRlineto,
		"rmoveto":         bRmoveto,
		"roll":            bRoll,
		"rotate":          bRotate,
		"round":           bRound,
		"run":             bRun,
		"scale":           bScale,
		"scalefont":       bScalefont,
		"search":          bSearch,
		"setalpha":        bSetalpha,
		"setcachedevice":  bSetcachedevice,
		"setfont":         bSetfont,
		"setgray":         bSetgray,
		"setlinewidth":    bSetlinewidth,
		"setmatrix":       bSetmatrix,
		"setpagedevice":   bSetpagedevice,
		"setrgbcolor":     bSetrgbcolor,
		"show":            bShow,
		"showpage":        bShowpage,
		"sin":             bSin,
		"sqrt":            bSqrt,
		"string":          bString,
		"stringwidth":     bStringwidth,
		"stroke":          bStroke,
		"sub":             bSub,
		"transform":       bTransform,
		"translate":       bTranslate,
		"true":            bTrue,
		"widthshow":       bWidthshow,
	}
}
