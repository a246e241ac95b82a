package prolog

// bootstrapLibrary is Prolog source consulted into every fresh Machine
// before any user program, providing the list/apply/control predicates that
// are more naturally expressed as ordinary backtracking clauses than as Go
// code -- the resolver's own choice-point machinery already does the work
// of finding every append/3 split or member/2 position. Grounded on the
// shape of a typical ISO library(lists)/library(apply) bootstrap file;
// predicates whose nondeterminism or performance profile is better served
// natively (arithmetic, sorting, findall/bagof/setof, atom/string
// manipulation) are Go builtins instead, registered by registerBuiltins.
const bootstrapLibrary = `
append([], L, L).
append([H|T], L, [H|R]) :- append(T, L, R).

append([], []).
append([L|Ls], Flat) :- append(Ls, Rest), append(L, Rest, Flat).

member(X, [X|_]).
member(X, [_|T]) :- member(X, T).

memberchk(X, L) :- member(X, L), !.

reverse(L, R) :- reverse_(L, [], R).
reverse_([], A, A).
reverse_([H|T], A, R) :- reverse_(T, [H|A], R).

last([X], X) :- !.
last([_|T], X) :- last(T, X).

nth0(I, L, E) :- integer(I), !, I >= 0, '$nth_det'(I, L, E).
nth0(I, L, E) :- var(I), '$nth_gen'(0, I, L, E).

nth1(I, L, E) :- integer(I), !, I >= 1, I0 is I - 1, '$nth_det'(I0, L, E).
nth1(I, L, E) :- var(I), '$nth_gen'(1, I, L, E).

'$nth_det'(0, [X|_], X) :- !.
'$nth_det'(N, [_|T], X) :- N > 0, N1 is N - 1, '$nth_det'(N1, T, X).

'$nth_gen'(I, I, [X|_], X).
'$nth_gen'(I0, I, [_|T], X) :- I1 is I0 + 1, '$nth_gen'(I1, I, T, X).

numlist(L, H, []) :- L > H, !.
numlist(L, H, [L|R]) :- L =< H, L1 is L + 1, numlist(L1, H, R).

sum_list(L, S) :- '$sum_list'(L, 0, S).
'$sum_list'([], A, A).
'$sum_list'([H|T], A0, S) :- A1 is A0 + H, '$sum_list'(T, A1, S).
sumlist(L, S) :- sum_list(L, S).

max_list([H|T], M) :- '$max_list'(T, H, M).
'$max_list'([], A, A).
'$max_list'([H|T], A0, M) :- A1 is max(A0, H), '$max_list'(T, A1, M).

min_list([H|T], M) :- '$min_list'(T, H, M).
'$min_list'([], A, A).
'$min_list'([H|T], A0, M) :- A1 is min(A0, H), '$min_list'(T, A1, M).

max_member(M, L) :- msort(L, S), last(S, M).
min_member(M, [H|T]) :- msort([H|T], [M|_]).

list_to_set(L, S) :- '$dedup'(L, [], S).
'$dedup'([], _, []).
'$dedup'([H|T], Seen, R) :-
    ( memberchk(H, Seen) -> R = R1 ; R = [H|R1] ),
    '$dedup'(T, [H|Seen], R1).

delete([], _, []).
delete([H|T], X, R) :- \+ H \= X, !, delete(T, X, R).
delete([H|T], X, [H|R]) :- delete(T, X, R).

exclude(_, [], []).
exclude(P, [H|T], R) :- ( call(P, H) -> R = R1 ; R = [H|R1] ), exclude(P, T, R1).

include(_, [], []).
include(P, [H|T], R) :- ( call(P, H) -> R = [H|R1] ; R = R1 ), include(P, T, R1).

partition(_, [], [], []).
partition(P, [H|T], Inc, Exc) :-
    ( call(P, H) -> Inc = [H|Inc1], Exc = Exc1 ; Inc = Inc1, Exc = [H|Exc1] ),
    partition(P, T, Inc1, Exc1).

subtract([], _, []).
subtract([H|T], L, R) :- ( memberchk(H, L) -> R = R1 ; R = [H|R1] ), subtract(T, L, R1).

intersection([], _, []).
intersection([H|T], L, R) :- ( memberchk(H, L) -> R = [H|R1] ; R = R1 ), intersection(T, L, R1).

union([], L, L).
union([H|T], L, R) :- ( memberchk(H, L) -> R = R1 ; R = [H|R1] ), union(T, L, R1).

select(X, [X|T], T).
select(X, [H|T], [H|R]) :- select(X, T, R).

selectchk(X, L, R) :- select(X, L, R), !.

permutation([], []).
permutation(L, [H|T]) :- select(H, L, R), permutation(R, T).

flatten(List, Flat) :- '$flatten'(List, [], Flat0), !, Flat = Flat0.
'$flatten'(Var, Tl, [Var|Tl]) :- var(Var), !.
'$flatten'([], Tl, Tl) :- !.
'$flatten'([H|T], Tl, List) :- !, '$flatten'(H, FlatT, List), '$flatten'(T, Tl, FlatT).
'$flatten'(NonList, Tl, [NonList|Tl]).

forall(Cond, Action) :- \+ (Cond, \+ Action).

maplist(_, []).
maplist(P, [H|T]) :- call(P, H), maplist(P, T).

maplist(_, [], []).
maplist(P, [H|T], [H2|T2]) :- call(P, H, H2), maplist(P, T, T2).

maplist(_, [], [], []).
maplist(P, [H|T], [H2|T2], [H3|T3]) :- call(P, H, H2, H3), maplist(P, T, T2, T3).

maplist(_, [], [], [], []).
maplist(P, [H|T], [H2|T2], [H3|T3], [H4|T4]) :- call(P, H, H2, H3, H4), maplist(P, T, T2, T3, T4).

foldl(_, [], A, A).
foldl(G, [H|T], A0, A) :- call(G, H, A0, A1), foldl(G, T, A1, A).

foldl(_, [], [], A, A).
foldl(G, [H|T], [H2|T2], A0, A) :- call(G, H, H2, A0, A1), foldl(G, T, T2, A1, A).

aggregate_all(count, Goal, Count) :-
    findall(x, Goal, Xs), length(Xs, Count).
aggregate_all(bag(Tmpl), Goal, Bag) :-
    findall(Tmpl, Goal, Bag).
aggregate_all(set(Tmpl), Goal, Set) :-
    findall(Tmpl, Goal, Bag), sort(Bag, Set).
aggregate_all(sum(Expr), Goal, Sum) :-
    findall(Expr, Goal, Xs), sum_list(Xs, Sum).
aggregate_all(max(Expr), Goal, Max) :-
    findall(Expr, Goal, Xs), max_list(Xs, Max).
aggregate_all(min(Expr), Goal, Min) :-
    findall(Expr, Goal, Xs), min_list(Xs, Min).

once(G) :- call(G), !.

ignore(G) :- ( call(G) -> true ; true ).

apply(G, Args) :- G =.. L0, append(L0, Args, L), G2 =.. L, call(G2).
`
